package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/calendiary/pkg/calendar"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Month prints a Monday-first grid. Today is bold and underlined, days with
// an entry are bright, and padding days from the neighbouring months are
// faint.
func (pp *PrettyPrint) Month(grid calendar.Month) {
	out := pp.out()
	tf := color.New(color.FgWhite, color.Italic)

	title := grid.Title()
	mid := (width - len(title)) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(out, "%s%s\n", strings.Repeat(" ", mid), title)

	headers := calendar.DayHeaders()
	short := make([]string, len(headers))
	for i, h := range headers {
		short[i] = h[:2]
	}
	hf := color.New(color.Faint, color.Underline)
	_, _ = hf.Fprintln(out, strings.Join(short, " "))

	padding := color.New(color.Faint, color.FgWhite)
	plain := color.New(color.FgWhite)
	marked := color.New(color.Bold, color.FgHiWhite)
	today := color.New(color.Bold, color.Underline, color.FgHiCyan)

	for _, week := range grid.Weeks() {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			switch c := cell.(type) {
			case calendar.InMonthDay:
				printer := plain
				if c.HasEntry {
					printer = marked
				}
				if c.IsToday {
					printer = today
				}
				cells = append(cells, printer.Sprintf("%2d", c.Date.Day))
			case calendar.AdjacentMonthDay:
				cells = append(cells, padding.Sprintf("%2d", c.Date.Day))
			default:
				cells = append(cells, "  ")
			}
		}
		_, _ = fmt.Fprintln(out, strings.Join(cells, " "))
	}
	_, _ = fmt.Fprintln(out, "")
}
