package prompt

import (
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/gqc/internal/ui/styles"
)

// ConfirmResult holds the answer to a yes/no prompt.
type ConfirmResult struct {
	Confirmed bool
	Cancelled bool
}

type confirmModel struct {
	prompt     string
	defaultYes bool
	result     ConfirmResult
	done       bool
}

func newConfirmModel(prompt string, defaultYes bool) confirmModel {
	return confirmModel{prompt: prompt, defaultYes: defaultYes}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.result.Confirmed = true
	case "n", "N":
		m.result.Confirmed = false
	case "enter":
		m.result.Confirmed = m.defaultYes
	case "ctrl+c", "esc", "q":
		m.result.Cancelled = true
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) hint() string {
	if m.defaultYes {
		return "[Y/n]"
	}
	return "[y/N]"
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(styles.TitleStyle.Render(m.prompt) + " " + styles.MutedStyle.Render(m.hint()) + " ")
}

// Confirm asks a yes/no question on stderr. Enter picks defaultYes.
func Confirm(prompt string, defaultYes bool) (ConfirmResult, error) {
	final, err := run(newConfirmModel(prompt, defaultYes))
	if err != nil {
		return ConfirmResult{}, err
	}
	return final.(confirmModel).result, nil
}
