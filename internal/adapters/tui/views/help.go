package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pmboard/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// Forms are the externally hosted whole-project forms
type Forms struct {
	Add    string
	Edit   string
	Delete string
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	forms   Forms
	backend string
	cache   string
}

// NewHelpModel creates a help view listing keys, form links and where data
// comes from
func NewHelpModel(forms Forms, backend, cache string) *HelpModel {
	return &HelpModel{forms: forms, backend: backend, cache: cache}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToTimelineMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("pmboard Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Timeline"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down"))
	b.WriteString(helpLine("e / space", "Expand or collapse all projects"))
	b.WriteString(helpLine("a", "Analyze the selected project"))
	b.WriteString(helpLine("y / x", "Copy / close the analysis"))
	b.WriteString(helpLine("enter", "Edit the selected project's tasks"))
	b.WriteString(helpLine("r", "Re-fetch all records"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Views"))
	b.WriteString("\n")
	b.WriteString(helpLine("g", "Project/member graph"))
	b.WriteString(helpLine("t", "Raw record table"))
	b.WriteString(helpLine("c", "Chat with the assistant"))
	b.WriteString(helpLine("esc", "Back to the timeline"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Editor"))
	b.WriteString("\n")
	b.WriteString(helpLine("h / l", "Previous/next column"))
	b.WriteString(helpLine("enter", "Edit the selected cell"))
	b.WriteString(helpLine("E", "Edit the selected cell in $EDITOR"))
	b.WriteString(helpLine("n / d", "Add / delete a row"))
	b.WriteString(helpLine("s", "Submit the draft (replaces all tasks)"))
	b.WriteString(helpLine("esc", "Discard the draft"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Project forms"))
	b.WriteString("\n")
	b.WriteString(formLine("Add project", m.forms.Add))
	b.WriteString(formLine("Edit project", m.forms.Edit))
	b.WriteString(formLine("Delete project", m.forms.Delete))
	b.WriteString("\n")

	b.WriteString(styles.MutedText.Render("  Backend: " + m.backend))
	b.WriteString("\n")
	if m.cache != "" {
		b.WriteString(styles.MutedText.Render("  Cache:   " + m.cache))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Close hint
	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func formLine(name, url string) string {
	if url == "" {
		url = styles.MutedText.Render("not configured")
	}
	return "  " + styles.HelpKey.Render(padRight(name, 20)) + url + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
