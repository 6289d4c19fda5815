package prompt

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/gqc/internal/ui/styles"
)

// MultiSelectResult holds the chosen option indices in option order.
type MultiSelectResult struct {
	Indices   []int
	Cancelled bool
}

// optionSource implements fuzzy.Source for options.
type optionSource []Option

func (s optionSource) String(i int) string { return s[i].Label }
func (s optionSource) Len() int            { return len(s) }

const maxVisible = 10

type multiSelectModel struct {
	title     string
	options   []Option
	filtered  []fuzzy.Match
	cursor    int
	selected  map[int]bool
	filter    string
	done      bool
	cancelled bool
}

func newMultiSelectModel(title string, options []Option, preselected []bool) multiSelectModel {
	m := multiSelectModel{
		title:    title,
		options:  options,
		selected: make(map[int]bool),
	}
	for i, on := range preselected {
		if on && i < len(options) {
			m.selected[i] = true
		}
	}
	m.applyFilter()
	return m
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case "up":
		m.cursor = max(0, m.cursor-1)
	case "down":
		m.cursor = min(max(0, len(m.filtered)-1), m.cursor+1)
	case "space", " ":
		m.toggle()
	case "ctrl+a":
		m.toggleAll()
	case "backspace":
		if m.filter != "" {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
			m.applyFilter()
		}
	default:
		if key.Text != "" {
			m.filter += key.Text
			m.applyFilter()
		}
	}
	return m, nil
}

// toggle flips the option under the cursor.
func (m *multiSelectModel) toggle() {
	if len(m.filtered) == 0 {
		return
	}
	idx := m.filtered[m.cursor].Index
	if m.selected[idx] {
		delete(m.selected, idx)
	} else {
		m.selected[idx] = true
	}
}

// toggleAll selects every visible option, or clears them when all are
// already selected.
func (m *multiSelectModel) toggleAll() {
	all := true
	for _, match := range m.filtered {
		if !m.selected[match.Index] {
			all = false
			break
		}
	}
	for _, match := range m.filtered {
		if all {
			delete(m.selected, match.Index)
		} else {
			m.selected[match.Index] = true
		}
	}
}

func (m *multiSelectModel) applyFilter() {
	if m.filter == "" {
		m.filtered = make([]fuzzy.Match, len(m.options))
		for i, opt := range m.options {
			m.filtered[i] = fuzzy.Match{Str: opt.Label, Index: i}
		}
	} else {
		// Results are sorted by score, best first
		m.filtered = fuzzy.FindFrom(m.filter, optionSource(m.options))
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m multiSelectModel) indices() []int {
	var indices []int
	for i := range m.options {
		if m.selected[i] {
			indices = append(indices, i)
		}
	}
	return indices
}

func (m multiSelectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d selected)\n", styles.TitleStyle.Render(m.title), len(m.selected))
	b.WriteString(styles.MutedStyle.Render("Filter: ") + m.filter + "\n\n")

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.filtered))

	if start > 0 {
		b.WriteString(styles.MutedStyle.Render("  ↑ more above") + "\n")
	}
	for i := start; i < end; i++ {
		match := m.filtered[i]
		opt := m.options[match.Index]

		cursor, style := "  ", styles.NormalStyle
		if i == m.cursor {
			cursor, style = "> ", styles.AccentStyle
		}
		checkbox := "[ ] "
		if m.selected[match.Index] {
			checkbox = "[" + styles.SymbolSuccess + "] "
		}

		label := style.Render(opt.Label)
		if m.filter != "" && len(match.MatchedIndexes) > 0 {
			label = highlight(opt.Label, match.MatchedIndexes, style)
		}
		b.WriteString(cursor + checkbox + label)
		if opt.Description != "" {
			b.WriteString(" " + styles.MutedStyle.Render(opt.Description))
		}
		b.WriteString("\n")
	}
	if end < len(m.filtered) {
		b.WriteString(styles.MutedStyle.Render("  ↓ more below") + "\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(styles.MutedStyle.Render("  No matching items") + "\n")
	}

	b.WriteString("\n" + styles.MutedStyle.Render("↑/↓ move • space toggle • ctrl+a all • type to filter • enter confirm • esc cancel"))
	return tea.NewView(b.String())
}

// highlight renders label with the fuzzy-matched characters emphasized.
func highlight(label string, matched []int, base lipgloss.Style) string {
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(label) {
		if set[i] {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

// MultiSelect shows a filterable checklist. preselected marks the options
// checked initially, by index.
func MultiSelect(title string, options []Option, preselected []bool) (MultiSelectResult, error) {
	if len(options) == 0 {
		return MultiSelectResult{Cancelled: true}, nil
	}

	finalModel, err := run(newMultiSelectModel(title, options, preselected))
	if err != nil {
		return MultiSelectResult{}, err
	}
	m := finalModel.(multiSelectModel)
	if m.cancelled {
		return MultiSelectResult{Cancelled: true}, nil
	}
	return MultiSelectResult{Indices: m.indices()}, nil
}
