package styles

import (
	"github.com/charmbracelet/lipgloss"

	"pmboard/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	Info      = lipgloss.Color("#60A5FA") // Blue
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")
	Track     = lipgloss.Color("#374151")

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Timeline rows
	ProjectRow = lipgloss.NewStyle().
			Bold(true)

	TaskRow = lipgloss.NewStyle()

	RowSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// Bar segments
	BarOnTrack  = lipgloss.NewStyle().Foreground(Info)
	BarComplete = lipgloss.NewStyle().Foreground(Secondary)
	BarOverdue  = lipgloss.NewStyle().Foreground(Error)
	BarSummary  = lipgloss.NewStyle().Foreground(Primary)
	BarTrack    = lipgloss.NewStyle().Foreground(Track)

	// Tree indicators
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	// Graph nodes
	NodeProject = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	NodeMember = lipgloss.NewStyle().
			Foreground(Secondary)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(0, 1)

	// Table
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Underline(true)

	CellSelected = lipgloss.NewStyle().
			Background(Secondary).
			Foreground(Black)

	Dirty = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusText = lipgloss.NewStyle().
			Foreground(Muted)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	// Chat
	ChatUser = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true)

	ChatAssistant = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// BarStyle returns the style for a task bar of the given status
func BarStyle(status domain.BarStatus) lipgloss.Style {
	switch status {
	case domain.BarComplete:
		return BarComplete
	case domain.BarOverdue:
		return BarOverdue
	default:
		return BarOnTrack
	}
}
