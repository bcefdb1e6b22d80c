package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pmboard/internal/adapters/tui/styles"
	"pmboard/internal/domain"
)

// TableKeyMap defines key bindings for the record table
type TableKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Back     key.Binding
	Quit     key.Binding
}

var TableKeys = TableKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("ctrl+f", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("ctrl+b", "prev page"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "t"),
		key.WithHelp("esc", "timeline"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// column is one table column and its display width
type column struct {
	field domain.Field
	width int
}

var tableColumns = []column{
	{domain.FieldProjectID, 8},
	{domain.FieldProjectName, 18},
	{domain.FieldTaskName, 20},
	{domain.FieldMember, 10},
	{domain.FieldDepartment, 10},
	{domain.FieldStatus, 12},
	{domain.FieldProgress, 8},
	{domain.FieldStartDate, 10},
	{domain.FieldDueDate, 10},
	{domain.FieldCompletedDate, 10},
	{domain.FieldDescription, 30},
}

// TableModel shows the raw records
type TableModel struct {
	ViewState
	board Board

	records []domain.TaskRecord
	pager   *pager
}

// NewTableModel creates a record table over board
func NewTableModel(board Board) *TableModel {
	m := &TableModel{board: board, pager: newPager(15)}
	m.Reload()
	return m
}

// Init initializes the table
func (m *TableModel) Init() tea.Cmd {
	return nil
}

// Reload copies the board's current records
func (m *TableModel) Reload() {
	m.records = m.board.Records()
	m.pager.setTotal(len(m.records))
}

// SetSize updates the dimensions and page height
func (m *TableModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.setSize(height - 10)
}

// Cursor returns the index of the highlighted record
func (m *TableModel) Cursor() int {
	return m.pager.cursor
}

// Update handles messages for the table
func (m *TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, TableKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, TableKeys.Back):
			return m, func() tea.Msg { return SwitchToTimelineMsg{} }
		case key.Matches(msg, TableKeys.Up):
			m.pager.up()
		case key.Matches(msg, TableKeys.Down):
			m.pager.down()
		case key.Matches(msg, TableKeys.NextPage):
			m.pager.nextPage()
		case key.Matches(msg, TableKeys.PrevPage):
			m.pager.prevPage()
		}
	}
	return m, nil
}

// View renders the table
func (m *TableModel) View() string {
	v := NewViewBuilder()
	v.Title("Records", fmt.Sprintf("%d rows • page %d/%d • %s",
		len(m.records), m.pager.page(), m.pager.pages(), fetchedLabel(m.board.Snapshot())))

	if len(m.records) == 0 {
		v.Muted("No records loaded.")
	} else {
		v.Line(renderHeader(tableColumns, -1))
		start, end := m.pager.visible()
		for i := start; i < end; i++ {
			line := renderCells(m.records[i], tableColumns, -1)
			if i == m.pager.cursor {
				line = styles.RowSelected.Render(line)
			}
			v.Line(line)
		}
	}
	v.BlankLine()
	v.Help(TableKeys.Up, TableKeys.Down, TableKeys.NextPage, TableKeys.PrevPage, TableKeys.Back, TableKeys.Quit)
	return v.String()
}

func renderHeader(cols []column, selected int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := fit(c.field.Title(), c.width)
		if i == selected {
			cell = styles.CellSelected.Render(cell)
		} else {
			cell = styles.TableHeader.Render(cell)
		}
		parts[i] = cell
	}
	return strings.Join(parts, " ")
}

func renderCells(rec domain.TaskRecord, cols []column, selected int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		cell := fit(rec.Get(c.field), c.width)
		if i == selected {
			cell = styles.CellSelected.Render(cell)
		}
		parts[i] = cell
	}
	return strings.Join(parts, " ")
}
