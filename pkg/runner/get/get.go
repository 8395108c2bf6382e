package get

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/printers"
)

// Get prints the entry of one date.
type Get struct {
	Storage diary.Storage
	On      calendar.Date
	JSON    bool
	Out     io.Writer
}

type result struct {
	Date  string         `json:"date"`
	Found bool           `json:"found"`
	Entry *app.EntryView `json:"entry,omitempty"`
}

func (n *Get) Do(ctx context.Context) error {
	if n.Storage == nil {
		return errors.New("can not get, no storage")
	}
	svc := &app.Service{Storage: n.Storage}

	e, err := svc.Entry(ctx, n.On)
	found := err == nil
	if err != nil && !diary.IsNotFound(err) {
		return err
	}

	if n.JSON {
		r := result{Date: n.On.String(), Found: found}
		if found {
			v := app.NewEntryView(e)
			r.Entry = &v
		}
		return printers.JSON(n.Out, r)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	if !found {
		pp.NoEntry(n.On)
		return nil
	}
	pp.Entry(e)
	return nil
}
