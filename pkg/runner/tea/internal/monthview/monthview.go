// Package monthview renders a calendar.Month grid for the Bubble Tea UI.
package monthview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/calendiary/pkg/calendar"
)

// Options controls calendar styling.
type Options struct {
	HeaderStyle   lipgloss.Style
	PaddingStyle  lipgloss.Style
	DayStyle      lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowHeader    bool
}

// Render produces a multi-line, Monday-first calendar for grid. The cell
// matching selected is highlighted.
func Render(grid calendar.Month, selected calendar.Date, opts Options) string {
	if len(grid.Days) == 0 {
		return ""
	}

	var lines []string
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(Header()))
	}
	for _, week := range grid.Weeks() {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, renderDay(cell, selected, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

// Header is the two-letter weekday row, Monday first.
func Header() string {
	names := calendar.DayHeaders()
	short := make([]string, len(names))
	for i, n := range names {
		short[i] = n[:2]
	}
	return strings.Join(short, " ")
}

func renderDay(cell calendar.Day, selected calendar.Date, opts Options) string {
	switch c := cell.(type) {
	case calendar.InMonthDay:
		style := opts.DayStyle
		if c.HasEntry {
			style = opts.EntryStyle
		}
		if c.IsToday {
			style = style.Inherit(opts.TodayStyle)
		}
		if c.Date == selected {
			style = opts.SelectedStyle.Inherit(style)
		}
		return style.Render(fmt.Sprintf("%2d", c.Date.Day))
	case calendar.AdjacentMonthDay:
		return opts.PaddingStyle.Render(fmt.Sprintf("%2d", c.Date.Day))
	}
	return opts.PaddingStyle.Render("  ")
}
