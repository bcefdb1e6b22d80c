package views

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pmboard/internal/adapters/editor"
	"pmboard/internal/adapters/tui/styles"
	"pmboard/internal/application"
	"pmboard/internal/domain"
)

// EditKeyMap defines key bindings for the draft editor
type EditKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Edit   key.Binding
	Extern key.Binding
	Add    key.Binding
	Delete key.Binding
	Submit key.Binding
	Cancel key.Binding
	Save   key.Binding
	Quit   key.Binding
}

var EditKeys = EditKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "prev column"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "next column"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit cell"),
	),
	Extern: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "edit in $EDITOR"),
	),
	Add: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "add row"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete row"),
	),
	Submit: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "discard"),
	),
	Save: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save cell"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

var editColumnWidths = map[domain.Field]int{
	domain.FieldProjectName: 16,
	domain.FieldTaskName:    20,
	domain.FieldDescription: 24,
	domain.FieldRisks:       18,
	domain.FieldNextSteps:   18,
	domain.FieldProgress:    8,
}

func editColumns() []column {
	fields := domain.Fields()
	cols := make([]column, len(fields))
	for i, f := range fields {
		w, ok := editColumnWidths[f]
		if !ok {
			w = 12
		}
		cols[i] = column{field: f, width: w}
	}
	return cols
}

type rowDeletedMsg struct {
	row     int
	removed bool
	err     error
}

type externalEditMsg struct {
	row     int
	field   domain.Field
	session *editor.Session
	err     error
}

type submitDoneMsg struct {
	result *application.SubmitResult
	err    error
}

// EditModel edits one project's draft. Delete and submit run as commands
// because their confirmations arrive through the Gate.
type EditModel struct {
	ViewState
	session *application.EditSession

	draft     []domain.TaskRecord
	cols      []column
	col       int
	colOffset int
	pager     *pager

	editing  bool
	input    textinput.Model
	external *editor.Editor
	confirm  ConfirmationModel

	working string
	spinner spinner.Model
}

// NewEditModel creates an editor for session
func NewEditModel(session *application.EditSession) *EditModel {
	input := textinput.New()
	input.CharLimit = 500

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &EditModel{
		session:  session,
		cols:     editColumns(),
		pager:    newPager(12),
		input:    input,
		external: editor.New(),
		confirm:  NewConfirmationModel(),
		spinner:  s,
	}
}

// Init initializes the editor
func (m *EditModel) Init() tea.Cmd {
	return nil
}

// Open starts a session on project. Re-opening the project already being
// edited resumes its draft.
func (m *EditModel) Open(project string) error {
	if m.session.State().Open() {
		if m.session.Project() == project {
			m.reload()
			return nil
		}
		return fmt.Errorf("finish editing %s first", m.session.Project())
	}
	if err := m.session.Open(project); err != nil {
		return err
	}
	m.col, m.colOffset = 0, 0
	m.pager.moveTo(0)
	m.editing = false
	m.ClearMessage()
	m.reload()
	return nil
}

// Ask shows a confirmation requested through the Gate
func (m *EditModel) Ask(req ConfirmRequestMsg) {
	m.editing = false
	m.input.Blur()
	m.confirm.AskGate(req)
}

// Draft returns the rows shown
func (m *EditModel) Draft() []domain.TaskRecord {
	return m.draft
}

// Cursor returns the selected row and column
func (m *EditModel) Cursor() (row int, field domain.Field) {
	return m.pager.cursor, m.cols[m.col].field
}

// SetSize updates the dimensions and page height
func (m *EditModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.setSize(height - 14)
}

func (m *EditModel) reload() {
	m.draft = m.session.Draft()
	m.pager.setTotal(len(m.draft))
}

// Update handles messages for the editor
func (m *EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.working != "" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case rowDeletedMsg:
		m.working = ""
		m.reload()
		switch {
		case msg.err != nil:
			m.SetError(msg.err)
		case msg.removed:
			m.SetMessage(fmt.Sprintf("Deleted row %d", msg.row+1), false)
		default:
			m.SetMessage("Delete cancelled", false)
		}
		return m, nil

	case externalEditMsg:
		if msg.err != nil {
			msg.session.Finish()
			m.SetError(msg.err)
			return m, nil
		}
		value, err := msg.session.Finish()
		if err != nil {
			m.SetError(err)
			return m, nil
		}
		if err := m.session.SetField(msg.row, msg.field, value); err != nil {
			m.SetError(err)
		}
		m.reload()
		return m, nil

	case submitDoneMsg:
		m.working = ""
		m.reload()
		if msg.err != nil {
			if errors.Is(msg.err, application.ErrDraftClean) {
				m.SetMessage("Nothing to submit: the draft has no changes", true)
			} else {
				m.SetError(msg.err)
			}
			return m, nil
		}
		if !msg.result.Confirmed {
			m.SetMessage(msg.result.Message, false)
			return m, nil
		}
		result := msg.result
		return m, func() tea.Msg { return SubmittedMsg{Result: result} }

	case tea.KeyMsg:
		if handled, cmd := m.confirm.HandleKeyMsg(msg); handled {
			return m, cmd
		}
		if m.editing {
			return m, m.handleInput(msg)
		}
		return m, m.handleKey(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *EditModel) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, EditKeys.Cancel):
		m.editing = false
		m.input.Blur()
		return nil
	case key.Matches(msg, EditKeys.Save):
		m.editing = false
		m.input.Blur()
		row, field := m.Cursor()
		value := m.input.Value()
		if field == domain.FieldStatus {
			value = string(domain.ParseStatus(value))
		}
		if err := m.session.SetField(row, field, value); err != nil {
			m.SetError(err)
		}
		m.reload()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *EditModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.ClearMessage()

	if m.working != "" && !key.Matches(msg, EditKeys.Quit) {
		m.SetMessage(m.working+" in progress", true)
		return nil
	}

	switch {
	case key.Matches(msg, EditKeys.Quit):
		return tea.Quit

	case key.Matches(msg, EditKeys.Up):
		m.pager.up()
	case key.Matches(msg, EditKeys.Down):
		m.pager.down()
	case key.Matches(msg, EditKeys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(msg, EditKeys.Right):
		if m.col < len(m.cols)-1 {
			m.col++
		}

	case key.Matches(msg, EditKeys.Edit):
		if len(m.draft) == 0 {
			return nil
		}
		row, field := m.Cursor()
		m.input.SetValue(m.draft[row].Get(field))
		m.input.CursorEnd()
		m.input.Placeholder = field.Title()
		m.editing = true
		return m.input.Focus()

	case key.Matches(msg, EditKeys.Extern):
		if len(m.draft) == 0 {
			return nil
		}
		return m.editExternally()

	case key.Matches(msg, EditKeys.Add):
		row, err := m.session.AddRow()
		if err != nil {
			m.SetError(err)
			return nil
		}
		m.reload()
		m.pager.moveTo(row)
		m.SetMessage(fmt.Sprintf("Added row %d", row+1), false)

	case key.Matches(msg, EditKeys.Delete):
		if len(m.draft) == 0 {
			return nil
		}
		return m.deleteRow(m.pager.cursor)

	case key.Matches(msg, EditKeys.Submit):
		return m.submit()

	case key.Matches(msg, EditKeys.Cancel):
		discard := func() tea.Cmd {
			if err := m.session.Cancel(); err != nil {
				m.SetError(err)
				return nil
			}
			m.draft = nil
			return func() tea.Msg { return SwitchToTimelineMsg{} }
		}
		if m.session.State() == application.SessionOpenDirty {
			m.confirm.AskLocal(fmt.Sprintf("Discard changes to %s?", m.session.Project()), discard)
			return nil
		}
		return discard()
	}
	return nil
}

// editExternally suspends the program while $EDITOR edits the selected cell
func (m *EditModel) editExternally() tea.Cmd {
	row, field := m.Cursor()
	session, err := m.external.Begin(field.String(), m.draft[row].Get(field))
	if err != nil {
		m.SetError(err)
		return nil
	}
	return tea.ExecProcess(session.Cmd, func(err error) tea.Msg {
		return externalEditMsg{row: row, field: field, session: session, err: err}
	})
}

func (m *EditModel) deleteRow(row int) tea.Cmd {
	m.working = "Delete"
	session := m.session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		removed, err := session.DeleteRow(context.Background(), row)
		return rowDeletedMsg{row: row, removed: removed, err: err}
	})
}

func (m *EditModel) submit() tea.Cmd {
	m.working = "Submit"
	session := m.session
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := session.Submit(context.Background())
		return submitDoneMsg{result: result, err: err}
	})
}

// visibleColumns scrolls horizontally so the selected column fits
func (m *EditModel) visibleColumns() (start, end int) {
	width := m.Width - 10
	if m.Width == 0 {
		width = 100
	}
	if m.col < m.colOffset {
		m.colOffset = m.col
	}
	span := func(from, to int) int {
		w := 0
		for i := from; i <= to; i++ {
			w += m.cols[i].width + 1
		}
		return w
	}
	for m.colOffset < m.col && span(m.colOffset, m.col) > width {
		m.colOffset++
	}
	end = m.colOffset
	for end < len(m.cols) && span(m.colOffset, end) <= width {
		end++
	}
	return m.colOffset, max(end, m.colOffset+1)
}

// View renders the editor
func (m *EditModel) View() string {
	v := NewViewBuilder()

	state := m.session.State()
	subtitle := fmt.Sprintf("%d rows • %s", len(m.draft), state)
	if state == application.SessionOpenDirty {
		subtitle = styles.Dirty.Render("● ") + subtitle
	}
	v.Title("Edit "+m.session.Project(), subtitle)

	start, end := m.visibleColumns()
	cols := m.cols[start:end]
	selected := m.col - start

	v.Line("    " + renderHeader(cols, selected))
	if len(m.draft) == 0 {
		v.Muted("No rows. Press n to add one.")
	}
	first, last := m.pager.visible()
	for i := first; i < last; i++ {
		sel := -1
		if i == m.pager.cursor {
			sel = selected
		}
		line := styles.MutedText.Render(fmt.Sprintf("%3d ", i+1)) + renderCells(m.draft[i], cols, sel)
		v.Line(line)
	}
	if m.pager.pages() > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", m.pager.page(), m.pager.pages()))
	}
	v.BlankLine()

	if m.editing {
		_, field := m.Cursor()
		v.Line(styles.InputLabel.Render(field.Title() + ":"))
		if field == domain.FieldStatus {
			v.Muted(domain.StatusNames())
		}
		v.Line(styles.InputField.Render(m.input.View()))
		v.BlankLine()
		v.Help(EditKeys.Save, EditKeys.Cancel)
		return v.String()
	}

	if m.confirm.Active() {
		v.Line(m.confirm.View())
		v.BlankLine()
	} else if m.working != "" {
		v.Line(m.spinner.View() + " " + m.working + "...")
		v.BlankLine()
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(EditKeys.Up, EditKeys.Down, EditKeys.Left, EditKeys.Right, EditKeys.Edit,
		EditKeys.Extern, EditKeys.Add, EditKeys.Delete, EditKeys.Submit, EditKeys.Cancel)
	return v.String()
}
