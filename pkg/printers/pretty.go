package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// PrettyPrint renders diary data for the terminal.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
	// Width wraps entry bodies; 0 means 80.
	Width int
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// Entry prints the long date heading followed by the wrapped, indented body.
func (pp *PrettyPrint) Entry(e diary.Entry) {
	pp.Title(calendar.FormatLong(e.Date))
	body := wordwrap.String(strings.TrimRight(e.Content, "\n"), pp.width()-2)
	_, _ = fmt.Fprintln(pp.out(), indent.String(body, 2))
	pp.NewLine()
}

// NoEntry prints the placeholder for a date without an entry.
func (pp *PrettyPrint) NoEntry(date calendar.Date) {
	pp.Title(calendar.FormatLong(date))
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), "  no entry\n\n")
}

// Entries prints one row per entry with a first-line preview.
func (pp *PrettyPrint) Entries(entries ...diary.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = uint(pp.width())
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Day"), bold.Sprint("Entry"))
	for _, e := range entries {
		tbl.AddRow(e.Date.String(), faint.Sprint(e.Date.Weekday().String()[:3]), e.Preview(pp.width()-20))
	}

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}
