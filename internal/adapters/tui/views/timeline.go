package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pmboard/internal/adapters/tui/styles"
	"pmboard/internal/domain"
)

// TimelineKeyMap defines key bindings for the timeline view
type TimelineKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Expand  key.Binding
	Analyze key.Binding
	Edit    key.Binding
	Refresh key.Binding
	Copy    key.Binding
	Close   key.Binding
	Graph   key.Binding
	Table   key.Binding
	Chat    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var TimelineKeys = TimelineKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Expand: key.NewBinding(
		key.WithKeys("e", " "),
		key.WithHelp("e", "expand/collapse"),
	),
	Analyze: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "analyze"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit tasks"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy analysis"),
	),
	Close: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close analysis"),
	),
	Graph: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "graph"),
	),
	Table: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "table"),
	),
	Chat: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "chat"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

const (
	labelWidth   = 32
	percentWidth = 6
	minTrack     = 20
)

// timelineRow points at a project summary (task < 0) or one of its tasks
type timelineRow struct {
	project int
	task    int
}

// TimelineModel is the project timeline view
type TimelineModel struct {
	ViewState
	board Board

	timeline *domain.Timeline
	rows     []timelineRow
	cursor   int
	top      int
	expanded bool

	loading   bool
	analyzing string
	analysis  *AnalysisMsg
	spinner   spinner.Model
}

// NewTimelineModel creates a timeline over board
func NewTimelineModel(board Board) *TimelineModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	m := &TimelineModel{
		board:   board,
		spinner: s,
	}
	m.Reload()
	return m
}

// Init starts the first fetch
func (m *TimelineModel) Init() tea.Cmd {
	return m.refresh()
}

// Reload rebuilds the chart from the board's current snapshot
func (m *TimelineModel) Reload() {
	m.timeline = m.board.Timeline()
	m.timeline.ExpandAll(m.expanded)
	m.rebuildRows()
}

func (m *TimelineModel) rebuildRows() {
	m.rows = m.rows[:0]
	for i, p := range m.timeline.Projects {
		m.rows = append(m.rows, timelineRow{project: i, task: -1})
		if !m.expanded {
			continue
		}
		for j := range p.Tasks {
			m.rows = append(m.rows, timelineRow{project: i, task: j})
		}
	}
	m.cursor = max(0, min(m.cursor, len(m.rows)-1))
}

// SelectedProject returns the project under the cursor
func (m *TimelineModel) SelectedProject() (domain.ProjectGroup, bool) {
	if len(m.rows) == 0 {
		return domain.ProjectGroup{}, false
	}
	return m.timeline.Projects[m.rows[m.cursor].project], true
}

// Expanded reports whether tasks are shown
func (m *TimelineModel) Expanded() bool {
	return m.expanded
}

// Busy reports whether a fetch or analysis is running
func (m *TimelineModel) Busy() bool {
	return m.loading || m.analyzing != ""
}

func (m *TimelineModel) refresh() tea.Cmd {
	m.loading = true
	board := m.board
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return RefreshedMsg{Err: board.Refresh(context.Background())}
	})
}

func (m *TimelineModel) analyze(project string) tea.Cmd {
	m.analyzing = project
	board := m.board
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := board.Analyze(context.Background(), project)
		return AnalysisMsg{Project: project, Text: text, Err: err}
	})
}

// Update handles messages for the timeline
func (m *TimelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case RefreshedMsg:
		m.loading = false
		if msg.Err != nil {
			m.SetMessage("Refresh failed, showing previous data: "+msg.Err.Error(), true)
			return m, nil
		}
		m.Reload()
		m.SetMessage(fmt.Sprintf("Loaded %d records", len(m.board.Records())), false)
		return m, nil

	case AnalysisMsg:
		if msg.Project == m.analyzing {
			m.analyzing = ""
		}
		if msg.Err != nil {
			m.SetMessage(msg.Err.Error(), true)
			return m, nil
		}
		m.analysis = &msg
		m.ClearMessage()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *TimelineModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.ClearMessage()

	switch {
	case key.Matches(msg, TimelineKeys.Quit):
		return tea.Quit

	case key.Matches(msg, TimelineKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, TimelineKeys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, TimelineKeys.Expand):
		// keep the cursor on the same project
		project := -1
		if len(m.rows) > 0 {
			project = m.rows[m.cursor].project
		}
		m.expanded = !m.expanded
		m.timeline.ExpandAll(m.expanded)
		m.rebuildRows()
		for i, r := range m.rows {
			if r.project == project && r.task < 0 {
				m.cursor = i
				break
			}
		}

	case key.Matches(msg, TimelineKeys.Refresh):
		if m.loading {
			m.SetMessage("Already refreshing", true)
			return nil
		}
		return m.refresh()

	case key.Matches(msg, TimelineKeys.Analyze):
		p, ok := m.SelectedProject()
		if !ok {
			return nil
		}
		if m.analyzing != "" {
			m.SetMessage("Analysis of "+m.analyzing+" still running", true)
			return nil
		}
		return m.analyze(p.Analyze.Project)

	case key.Matches(msg, TimelineKeys.Edit):
		p, ok := m.SelectedProject()
		if !ok {
			return nil
		}
		project := p.Edit.Project
		return func() tea.Msg { return SwitchToEditMsg{Project: project} }

	case key.Matches(msg, TimelineKeys.Copy):
		if m.analysis == nil {
			return nil
		}
		if err := clipboard.WriteAll(m.analysis.Text); err != nil {
			m.SetMessage("Copy failed: "+err.Error(), true)
			return nil
		}
		m.SetMessage("Analysis copied to clipboard", false)

	case key.Matches(msg, TimelineKeys.Close):
		m.analysis = nil

	case key.Matches(msg, TimelineKeys.Graph):
		return func() tea.Msg { return SwitchToGraphMsg{} }

	case key.Matches(msg, TimelineKeys.Table):
		return func() tea.Msg { return SwitchToTableMsg{} }

	case key.Matches(msg, TimelineKeys.Chat):
		return func() tea.Msg { return SwitchToChatMsg{} }

	case key.Matches(msg, TimelineKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

func (m *TimelineModel) trackWidth() int {
	width := m.Width
	if width == 0 {
		width = 100
	}
	return max(minTrack, width-labelWidth-percentWidth-6)
}

// visibleRows keeps the cursor on screen and returns the window of rows
func (m *TimelineModel) visibleRows(height int) []timelineRow {
	if height <= 0 || len(m.rows) <= height {
		m.top = 0
		return m.rows
	}
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+height {
		m.top = m.cursor - height + 1
	}
	m.top = max(0, min(m.top, len(m.rows)-height))
	return m.rows[m.top : m.top+height]
}

// View renders the timeline
func (m *TimelineModel) View() string {
	v := NewViewBuilder()

	snap := m.board.Snapshot()
	subtitle := fmt.Sprintf("%d projects • %s", len(m.timeline.Projects), fetchedLabel(snap))
	if m.loading {
		subtitle = m.spinner.View() + " fetching • " + subtitle
	}
	v.Title("Project Timeline", subtitle)

	if len(m.rows) == 0 {
		v.Muted("No chartable tasks. Press r to fetch.")
	} else {
		v.Raw(m.renderChart())
	}
	if m.timeline.Dropped > 0 {
		v.Muted(fmt.Sprintf("%d records without project, task or dates are not shown", m.timeline.Dropped))
	}
	v.BlankLine()

	if m.analyzing != "" {
		v.Line(m.spinner.View() + " Analyzing " + m.analyzing + "...")
		v.BlankLine()
	}
	if m.analysis != nil {
		v.Line(m.renderAnalysis())
		v.BlankLine()
	}

	v.Message(m.Message, m.MessageErr)
	v.Help(TimelineKeys.Up, TimelineKeys.Down, TimelineKeys.Expand, TimelineKeys.Analyze,
		TimelineKeys.Edit, TimelineKeys.Refresh, TimelineKeys.Graph, TimelineKeys.Table,
		TimelineKeys.Chat, TimelineKeys.Help, TimelineKeys.Quit)
	return v.String()
}

func (m *TimelineModel) renderChart() string {
	var b strings.Builder
	track := m.trackWidth()
	spanStart, spanEnd := m.timeline.Span()

	indent := strings.Repeat(" ", labelWidth+1)
	b.WriteString(indent + renderAxis(spanStart, spanEnd, track) + "\n")
	if col := todayMarker(m.board.Now(), spanStart, spanEnd, track); col >= 0 {
		b.WriteString(indent + strings.Repeat(" ", col) + styles.Dirty.Render("▼ today") + "\n")
	}

	height := 0
	if m.Height > 0 {
		height = max(5, m.Height-16)
		if m.analysis != nil {
			height = max(5, height-8)
		}
	}
	for _, r := range m.visibleRows(height) {
		p := m.timeline.Projects[r.project]
		selected := len(m.rows) > 0 && m.rows[m.cursor] == r

		var label, bar, pct string
		if r.task < 0 {
			marker := styles.TreeCollapsed
			if m.expanded {
				marker = styles.TreeExpanded
			}
			label = fit(marker+p.Name, labelWidth)
			bar = renderBar(p.Start, p.End, spanStart, spanEnd, track, p.Progress, styles.BarSummary)
			pct = fmt.Sprintf("%4d%%", p.Progress)
			if !selected {
				label = styles.ProjectRow.Render(label)
			}
		} else {
			t := p.Tasks[r.task]
			label = fit("    "+t.Task.TaskName, labelWidth)
			bar = renderBar(t.Start, t.End, spanStart, spanEnd, track, t.Percent, styles.BarStyle(t.Status))
			pct = styles.BarStyle(t.Status).Render(fmt.Sprintf("%4d%%", t.Percent))
		}
		if selected {
			label = styles.RowSelected.Render(label)
		}
		b.WriteString(label + " " + bar + " " + pct + "\n")
	}
	return b.String()
}

func (m *TimelineModel) renderAnalysis() string {
	width := m.Width - 8
	if width <= 0 || width > 100 {
		width = 100
	}
	body := styles.InputLabel.Render("Analysis: "+m.analysis.Project) + "\n\n" +
		lipgloss.NewStyle().Width(width-4).Render(strings.TrimSpace(m.analysis.Text)) + "\n\n" +
		RenderHelpLine(TimelineKeys.Copy, TimelineKeys.Close)
	return styles.Panel.Width(width).Render(body)
}
