package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pmboard/internal/adapters/tui/styles"
	"pmboard/internal/application/commands"
	"pmboard/internal/domain"
)

// GraphKeyMap defines key bindings for the graph view
type GraphKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Edit key.Binding
	Back key.Binding
	Quit key.Binding
}

var GraphKeys = GraphKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit project"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "g"),
		key.WithHelp("esc", "timeline"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

const nodeListWidth = 28

// GraphModel lists project and member nodes and shows the selected node's
// tasks beside the list
type GraphModel struct {
	ViewState
	board Board

	graph  *domain.Graph
	nodes  []domain.Node
	cursor int
	detail *commands.SelectResult
}

// NewGraphModel creates a graph view over board
func NewGraphModel(board Board) *GraphModel {
	m := &GraphModel{board: board}
	m.Reload()
	return m
}

// Init initializes the graph view
func (m *GraphModel) Init() tea.Cmd {
	return nil
}

// Reload rebuilds the graph from the board and keeps the cursor on the
// same node when it still exists
func (m *GraphModel) Reload() {
	var current domain.NodeKey
	hadCurrent := len(m.nodes) > 0
	if hadCurrent {
		current = m.nodes[m.cursor].Key()
	}

	m.graph = m.board.Graph()
	m.nodes = append(m.graph.Projects(), m.graph.Members()...)
	m.cursor = 0
	if hadCurrent {
		for i, n := range m.nodes {
			if n.Key() == current {
				m.cursor = i
				break
			}
		}
	}
	m.selectCurrent()
}

// Selected returns the node under the cursor
func (m *GraphModel) Selected() (domain.Node, bool) {
	if len(m.nodes) == 0 {
		return domain.Node{}, false
	}
	return m.nodes[m.cursor], true
}

// Detail returns the selection shown beside the list
func (m *GraphModel) Detail() *commands.SelectResult {
	return m.detail
}

func (m *GraphModel) selectCurrent() {
	n, ok := m.Selected()
	if !ok {
		m.detail = nil
		return
	}
	result, err := commands.NewSelectCommand(m, n.Kind.String(), n.ID).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		m.detail = nil
		return
	}
	m.detail = result
}

// Graph implements commands.GraphProvider with the loaded graph
func (m *GraphModel) Graph() *domain.Graph {
	return m.graph
}

// Update handles messages for the graph view
func (m *GraphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		switch {
		case key.Matches(msg, GraphKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, GraphKeys.Back):
			return m, func() tea.Msg { return SwitchToTimelineMsg{} }

		case key.Matches(msg, GraphKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.selectCurrent()
			}

		case key.Matches(msg, GraphKeys.Down):
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				m.selectCurrent()
			}

		case key.Matches(msg, GraphKeys.Edit):
			n, ok := m.Selected()
			if !ok || n.Kind != domain.NodeProject {
				return m, nil
			}
			project := n.Label
			return m, func() tea.Msg { return SwitchToEditMsg{Project: project} }
		}
	}
	return m, nil
}

// View renders the graph view
func (m *GraphModel) View() string {
	v := NewViewBuilder()
	v.Title("Relationships", fmt.Sprintf("%d projects • %d members • %d links",
		len(m.graph.Projects()), len(m.graph.Members()), len(m.graph.Edges)))

	if len(m.nodes) == 0 {
		v.Muted("No records loaded.")
	} else {
		list := m.renderNodeList()
		detail := m.renderDetail()
		v.Line(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail))
	}
	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	v.Help(GraphKeys.Up, GraphKeys.Down, GraphKeys.Edit, GraphKeys.Back, GraphKeys.Quit)
	return v.String()
}

func (m *GraphModel) renderNodeList() string {
	var b strings.Builder
	lastKind := domain.NodeKind(-1)
	for i, n := range m.nodes {
		if n.Kind != lastKind {
			if lastKind >= 0 {
				b.WriteString("\n")
			}
			title := "Projects"
			if n.Kind == domain.NodeMember {
				title = "Members"
			}
			b.WriteString(styles.InputLabel.Render(title) + "\n")
			lastKind = n.Kind
		}

		label := n.Label
		if n.Kind == domain.NodeProject && n.Label != n.ID {
			label = n.Label + " (" + n.ID + ")"
		}
		line := fit(" "+label, nodeListWidth)
		switch {
		case i == m.cursor:
			line = styles.RowSelected.Render(line)
		case n.Kind == domain.NodeProject:
			line = styles.NodeProject.Render(line)
		default:
			line = styles.NodeMember.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m *GraphModel) renderDetail() string {
	width := m.Width - nodeListWidth - 12
	if width < 30 {
		width = 50
	}
	if m.detail == nil {
		return ""
	}

	sel := m.detail.Selection
	var b strings.Builder
	switch sel.Kind {
	case domain.NodeProject:
		b.WriteString(styles.NodeProject.Render(sel.Label) + styles.MutedText.Render("  "+sel.ID))
	default:
		b.WriteString(styles.NodeMember.Render(sel.Label) + styles.MutedText.Render("  "+sel.Department))
	}
	b.WriteString("\n\n")

	for _, grp := range sel.Groups {
		heading := grp.Key
		if heading == "" {
			heading = "(unassigned)"
		}
		if grp.Department != "" {
			heading += styles.MutedText.Render("  " + grp.Department)
		}
		b.WriteString(styles.InputLabel.Render(heading) + "\n")
		for _, t := range grp.Tasks {
			b.WriteString(fmt.Sprintf("  • %s %s\n", t.Name, styles.MutedText.Render("["+t.Status.String()+"]")))
			if t.Description != "" {
				b.WriteString(styles.MutedText.Render(fit("    "+t.Description, width-4)) + "\n")
			}
		}
	}

	var linked []string
	for _, n := range m.detail.Star.Nodes {
		if n.Key() != (domain.NodeKey{Kind: sel.Kind, ID: sel.ID}) {
			linked = append(linked, n.Label)
		}
	}
	if len(linked) > 0 {
		b.WriteString("\n" + styles.MutedText.Render("Linked: "+strings.Join(linked, ", ")))
	}
	return styles.Panel.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}
