package show

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/printers"
)

// Show prints the calendar grid of a month, marking today and the days
// that have an entry.
type Show struct {
	Storage diary.Storage
	Year    int
	Month   time.Month
	JSON    bool
	Out     io.Writer
	// Now overrides the clock used for "today".
	Now func() time.Time
}

func (n *Show) Do(ctx context.Context) error {
	if n.Storage == nil {
		return errors.New("can not show, no storage")
	}
	svc := &app.Service{Storage: n.Storage, Now: n.Now}

	grid, err := svc.Month(ctx, n.Year, n.Month)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, app.NewMonthView(grid))
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.Month(grid)
	pp.NewLine()
	return nil
}
