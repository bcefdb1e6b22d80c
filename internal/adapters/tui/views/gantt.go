package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pmboard/internal/adapters/tui/styles"
	"pmboard/internal/domain"
)

const day = 24 * time.Hour

// barCells places a bar covering [start, end] inside a track of width cells
// spanning [spanStart, spanEnd]. It returns the number of leading blank
// cells, the progress-filled cells and the unfilled cells of the bar. Both
// ends are inclusive days and a bar is always at least one cell wide.
func barCells(start, end, spanStart, spanEnd time.Time, width, percent int) (offset, filled, empty int) {
	if width <= 0 {
		return 0, 0, 0
	}
	days := spanEnd.Sub(spanStart)/day + 1
	if days <= 0 {
		days = 1
	}
	col := func(t time.Time) int {
		return int(int64(t.Sub(spanStart)/day) * int64(width) / int64(days))
	}

	offset = max(0, min(col(start), width-1))
	stop := max(offset+1, min(col(end.Add(day)), width))
	length := stop - offset

	if percent < 0 {
		percent = 0
	}
	filled = min(length, length*percent/100)
	return offset, filled, length - filled
}

// renderBar draws one bar padded to width cells
func renderBar(start, end, spanStart, spanEnd time.Time, width, percent int, style lipgloss.Style) string {
	offset, filled, empty := barCells(start, end, spanStart, spanEnd, width, percent)
	if filled+empty == 0 {
		return strings.Repeat(" ", width)
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", offset))
	b.WriteString(style.Render(strings.Repeat("█", filled)))
	b.WriteString(style.Render(strings.Repeat("░", empty)))
	b.WriteString(strings.Repeat(" ", width-offset-filled-empty))
	return b.String()
}

// renderAxis labels the first and last day of the span
func renderAxis(spanStart, spanEnd time.Time, width int) string {
	left := domain.FormatDate(spanStart)
	right := domain.FormatDate(spanEnd)
	gap := width - len(left) - len(right)
	if gap < 1 {
		return fit(left, width)
	}
	return styles.MutedText.Render(left + strings.Repeat(" ", gap) + right)
}

// todayMarker returns the column of now inside the span, or -1
func todayMarker(now, spanStart, spanEnd time.Time, width int) int {
	if now.Before(spanStart) || now.After(spanEnd.Add(day)) {
		return -1
	}
	offset, _, _ := barCells(now, now, spanStart, spanEnd, width, 0)
	return offset
}
