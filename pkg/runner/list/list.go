package list

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/printers"
)

// List prints the entries of a month in date order, or every entry most
// recent first when All is set.
type List struct {
	Storage diary.Storage
	Year    int
	Month   time.Month
	All     bool
	JSON    bool
	Out     io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.Storage == nil {
		return errors.New("can not list, no storage")
	}
	svc := &app.Service{Storage: n.Storage}

	var (
		entries []diary.Entry
		title   string
		err     error
	)
	if n.All {
		title = "All entries"
		entries, err = svc.AllEntries(ctx)
	} else {
		title = fmt.Sprintf("%s %d", calendar.MonthDisplayName(n.Month), n.Year)
		entries, err = svc.MonthEntries(ctx, n.Year, n.Month)
	}
	if err != nil {
		return err
	}

	if n.JSON {
		return printers.JSON(n.Out, map[string]any{
			"title":   title,
			"count":   len(entries),
			"entries": app.NewEntryViews(entries),
		})
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.TitleWithCount(title, len(entries))
	pp.Entries(entries...)
	return nil
}
