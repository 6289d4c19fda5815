package styles

import "strings"

// Status symbols
const (
	SymbolSuccess = "✓"
	SymbolFailure = "✗"
	SymbolDirty   = "●"
)

// FormatResult renders the outcome of one repository action.
func FormatResult(err error) string {
	if err == nil {
		return SuccessStyle.Render(SymbolSuccess + " ok")
	}
	msg := strings.TrimSpace(err.Error())
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return ErrorStyle.Render(SymbolFailure + " " + msg)
}

// FormatDirty renders the working copy state.
func FormatDirty(dirty bool) string {
	if dirty {
		return WarningStyle.Render(SymbolDirty + " dirty")
	}
	return MutedStyle.Render("clean")
}

// FormatHead renders a branch name, or a muted marker for a detached HEAD.
func FormatHead(head string) string {
	if head == "" {
		return MutedStyle.Render("(detached)")
	}
	return head
}
