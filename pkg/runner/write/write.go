package write

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/printers"
)

// Write replaces the entry of a date. Blank content deletes the entry.
type Write struct {
	Storage diary.Storage
	On      calendar.Date
	Content string
	JSON    bool
	Out     io.Writer
}

func (n *Write) Do(ctx context.Context) error {
	if n.Storage == nil {
		return errors.New("can not write, no storage")
	}
	svc := &app.Service{Storage: n.Storage}

	res, err := svc.Write(ctx, n.On, n.Content)
	if err != nil {
		return err
	}
	return report(n.Out, n.JSON, n.On, res)
}

// Delete removes the entry of a date.
type Delete struct {
	Storage diary.Storage
	On      calendar.Date
	JSON    bool
	Out     io.Writer
}

func (n *Delete) Do(ctx context.Context) error {
	if n.Storage == nil {
		return errors.New("can not delete, no storage")
	}
	svc := &app.Service{Storage: n.Storage}

	existed, err := svc.Delete(ctx, n.On)
	if err != nil {
		return err
	}
	res := app.Unchanged
	if existed {
		res = app.Deleted
	}
	return report(n.Out, n.JSON, n.On, res)
}

func report(out io.Writer, asJSON bool, date calendar.Date, res app.WriteResult) error {
	if asJSON {
		return printers.JSON(out, map[string]string{
			"date":   date.String(),
			"result": res.String(),
		})
	}
	if out == nil {
		out = color.Output
	}

	c := color.New(color.Faint)
	switch res {
	case app.Saved:
		c = color.New(color.FgGreen)
	case app.Deleted:
		c = color.New(color.FgYellow)
	}
	_, err := c.Fprintf(out, "%s %s\n", res, calendar.FormatLong(date))
	return err
}
