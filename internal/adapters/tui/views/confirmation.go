package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pmboard/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel holds one pending yes/no question. The question either
// comes from the Gate (an operation is blocked on it) or is local to a view.
type ConfirmationModel struct {
	Keys ConfirmKeyMap

	prompt  string
	request *ConfirmRequestMsg
	onYes   func() tea.Cmd
}

// NewConfirmationModel creates a confirmation model with default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// Active reports whether a question is pending
func (m *ConfirmationModel) Active() bool {
	return m.prompt != ""
}

// Prompt returns the pending question
func (m *ConfirmationModel) Prompt() string {
	return m.prompt
}

// AskGate shows a question from the Gate
func (m *ConfirmationModel) AskGate(req ConfirmRequestMsg) {
	m.prompt = req.Prompt
	m.request = &req
	m.onYes = nil
}

// AskLocal shows a question whose yes answer runs onYes
func (m *ConfirmationModel) AskLocal(prompt string, onYes func() tea.Cmd) {
	m.prompt = prompt
	m.request = nil
	m.onYes = onYes
}

// HandleKeyMsg answers the pending question. Other keys are swallowed while
// a question is pending. Returns (handled, cmd).
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !m.Active() {
		return false, nil
	}

	var answer, decided bool
	switch {
	case key.Matches(msg, m.Keys.Confirm):
		answer, decided = true, true
	case key.Matches(msg, m.Keys.Cancel):
		answer, decided = false, true
	}
	if !decided {
		return true, nil
	}

	req, onYes := m.request, m.onYes
	m.prompt, m.request, m.onYes = "", nil, nil

	if req != nil {
		req.Answer(answer)
		return true, nil
	}
	if answer && onYes != nil {
		return true, onYes()
	}
	return true, nil
}

// Cancel declines a pending question
func (m *ConfirmationModel) Cancel() {
	if m.request != nil {
		m.request.Answer(false)
	}
	m.prompt, m.request, m.onYes = "", nil, nil
}

// View renders the pending question
func (m *ConfirmationModel) View() string {
	if !m.Active() {
		return ""
	}
	return RenderConfirmPrompt(m.prompt)
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(styles.Dirty.Render(question))
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
