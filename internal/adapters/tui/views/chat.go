package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pmboard/internal/adapters/tui/styles"
	"pmboard/internal/application"
)

// ChatKeyMap defines key bindings for the chat view
type ChatKeyMap struct {
	Send key.Binding
	Back key.Binding
	Quit key.Binding
}

var ChatKeys = ChatKeyMap{
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "timeline"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

type greetingMsg struct {
	text string
}

type replyMsg struct {
	text string
	err  error
}

// ChatModel is a conversation with the backend assistant. The transcript
// scrolls in a viewport above the input line.
type ChatModel struct {
	ViewState
	chat *application.ChatSession

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	waiting  bool
	greeted  bool
}

// NewChatModel creates a chat view for one session
func NewChatModel(chat *application.ChatSession) *ChatModel {
	input := textinput.New()
	input.Placeholder = "Ask about the projects..."
	input.CharLimit = 1000
	input.Prompt = "› "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &ChatModel{
		chat:     chat,
		viewport: viewport.New(80, 15),
		input:    input,
		spinner:  s,
	}
}

// Init focuses the input and requests the greeting on first open
func (m *ChatModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.input.Focus(), textinput.Blink}
	if !m.greeted {
		m.greeted = true
		m.waiting = true
		chat := m.chat
		cmds = append(cmds, m.spinner.Tick, func() tea.Msg {
			return greetingMsg{text: chat.Greeting(context.Background())}
		})
	}
	m.refreshTranscript()
	return tea.Batch(cmds...)
}

// SetSize updates the dimensions and the transcript area
func (m *ChatModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.viewport.Width = max(20, width-6)
	m.viewport.Height = max(5, height-10)
	m.input.Width = max(20, width-10)
	m.refreshTranscript()
}

// Waiting reports whether a reply is outstanding
func (m *ChatModel) Waiting() bool {
	return m.waiting
}

// Update handles messages for the chat view
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case greetingMsg:
		m.waiting = false
		m.refreshTranscript()
		return m, nil

	case replyMsg:
		m.waiting = false
		m.SetError(msg.err)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, ChatKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, ChatKeys.Back):
			m.input.Blur()
			return m, func() tea.Msg { return SwitchToTimelineMsg{} }
		case key.Matches(msg, ChatKeys.Send):
			return m, m.send()
		case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	if m.waiting {
		m.SetMessage("Waiting for the previous reply", true)
		return nil
	}
	m.input.Reset()
	m.ClearMessage()
	m.waiting = true
	m.refreshTranscript(text)

	chat := m.chat
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := chat.Send(context.Background(), text)
		return replyMsg{text: reply, err: err}
	})
}

// refreshTranscript redraws the history. pending is a message already sent
// but not yet recorded by the session.
func (m *ChatModel) refreshTranscript(pending ...string) {
	width := m.viewport.Width
	body := lipgloss.NewStyle().Width(max(10, width-2))

	var b strings.Builder
	history := m.chat.History()
	for _, turn := range history {
		b.WriteString(renderTurn(turn.Role, turn.Content, body))
	}
	for _, p := range pending {
		if n := len(history); n > 0 && history[n-1].Role == "user" && history[n-1].Content == p {
			continue
		}
		b.WriteString(renderTurn("user", p, body))
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func renderTurn(role, content string, body lipgloss.Style) string {
	label := styles.ChatAssistant.Render("Assistant")
	if role == "user" {
		label = styles.ChatUser.Render("You")
	}
	return label + "\n" + body.Render(content) + "\n\n"
}

// View renders the chat view
func (m *ChatModel) View() string {
	v := NewViewBuilder()
	v.Title("Assistant", "session "+shortID(m.chat.ID()))
	v.Line(m.viewport.View())

	if m.waiting {
		v.Line(m.spinner.View() + " thinking...")
	} else {
		v.BlankLine()
	}
	v.Line(styles.InputField.Render(m.input.View()))
	v.Message(m.Message, m.MessageErr)
	v.Help(ChatKeys.Send, ChatKeys.Back, ChatKeys.Quit)
	return v.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
