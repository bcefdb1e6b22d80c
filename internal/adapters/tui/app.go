package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pmboard/internal/adapters/tui/views"
	"pmboard/internal/application"
)

// ViewState represents the current view
type ViewState int

const (
	ViewTimeline ViewState = iota
	ViewGraph
	ViewTable
	ViewEdit
	ViewChat
	ViewHelp
)

// Deps are the components the TUI drives
type Deps struct {
	Board   views.Board
	Session *application.EditSession
	Chat    *application.ChatSession
	Gate    *views.Gate
	Forms   views.Forms
	Backend string
	Cache   string
	// Fetch re-fetches on start; when false the cached snapshot is shown
	Fetch bool
}

// App is the main TUI application model
type App struct {
	deps Deps

	state    ViewState
	timeline *views.TimelineModel
	graph    *views.GraphModel
	table    *views.TableModel
	edit     *views.EditModel
	chat     *views.ChatModel
	help     *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(deps Deps) *App {
	return &App{
		deps:     deps,
		state:    ViewTimeline,
		timeline: views.NewTimelineModel(deps.Board),
		graph:    views.NewGraphModel(deps.Board),
		table:    views.NewTableModel(deps.Board),
		edit:     views.NewEditModel(deps.Session),
		chat:     views.NewChatModel(deps.Chat),
		help:     views.NewHelpModel(deps.Forms, deps.Backend, deps.Cache),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.deps.Gate.Wait()}
	if a.deps.Fetch {
		cmds = append(cmds, a.timeline.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.timeline.SetSize(msg.Width, msg.Height)
		a.graph.SetSize(msg.Width, msg.Height)
		a.table.SetSize(msg.Width, msg.Height)
		a.edit.SetSize(msg.Width, msg.Height)
		a.chat.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToTimelineMsg:
		a.state = ViewTimeline
		return a, nil

	case views.SwitchToGraphMsg:
		a.graph.Reload()
		a.state = ViewGraph
		return a, nil

	case views.SwitchToTableMsg:
		a.table.Reload()
		a.state = ViewTable
		return a, nil

	case views.SwitchToChatMsg:
		a.state = ViewChat
		return a, a.chat.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToEditMsg:
		if err := a.edit.Open(msg.Project); err != nil {
			a.timeline.SetError(err)
			a.state = ViewTimeline
			return a, nil
		}
		a.state = ViewEdit
		return a, nil

	// A blocked edit operation needs an answer
	case views.ConfirmRequestMsg:
		a.edit.Ask(msg)
		a.state = ViewEdit
		return a, a.deps.Gate.Wait()

	// Data changes reach every view that renders records
	case views.RefreshedMsg:
		_, cmd := a.timeline.Update(msg)
		if msg.Err == nil {
			a.graph.Reload()
			a.table.Reload()
		}
		return a, cmd

	case views.SubmittedMsg:
		a.reloadAll()
		a.state = ViewTimeline
		if msg.Result.RefreshErr != nil {
			a.timeline.SetMessage(msg.Result.Message+": "+msg.Result.RefreshErr.Error(), true)
		} else {
			a.timeline.SetMessage(msg.Result.Message, false)
		}
		return a, nil

	case views.AnalysisMsg:
		_, cmd := a.timeline.Update(msg)
		return a, cmd
	}

	// Keys go to the current view only. Everything else (spinner ticks,
	// replies to background commands) goes to every view so a reply is not
	// lost when the user has switched away.
	if _, ok := msg.(tea.KeyMsg); ok {
		_, cmd := a.current().Update(msg)
		return a, cmd
	}
	var cmds []tea.Cmd
	for _, v := range a.views() {
		_, cmd := v.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) views() []tea.Model {
	return []tea.Model{a.timeline, a.graph, a.table, a.edit, a.chat, a.help}
}

func (a *App) current() tea.Model {
	switch a.state {
	case ViewGraph:
		return a.graph
	case ViewTable:
		return a.table
	case ViewEdit:
		return a.edit
	case ViewChat:
		return a.chat
	case ViewHelp:
		return a.help
	default:
		return a.timeline
	}
}

func (a *App) reloadAll() {
	a.timeline.Reload()
	a.graph.Reload()
	a.table.Reload()
}

// View renders the current view
func (a *App) View() string {
	return a.current().View()
}
