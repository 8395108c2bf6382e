// Package teaui is the Bubble Tea front end: a month calendar with a
// per-date entry editor.
package teaui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/month"
)

// Runner launches the Bubble Tea UI.
type Runner struct {
	Storage  diary.Storage
	AutoSave time.Duration
	Log      zerolog.Logger
}

// Do runs the UI until the user quits or ctx is done. An editor still open
// at that point is flushed before Do returns.
func (r Runner) Do(ctx context.Context) error {
	if r.Storage == nil {
		return errors.New("ui runner requires storage")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc := &app.Service{Storage: r.Storage}
	nav := month.New(svc, month.WithLogger(r.Log))
	go func() {
		if err := nav.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.Log.Warn().Err(err).Msg("calendar feed stopped")
		}
	}()

	m := New(svc, nav,
		WithContext(ctx),
		WithLogger(r.Log),
		WithAutoSave(r.AutoSave),
	)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(Model); ok {
		if fm.ed != nil {
			if cerr := fm.ed.Close(context.Background()); cerr != nil && err == nil {
				err = cerr
			}
		}
		// Editors closed just before quitting may still be flushing.
		fm.flushes.Wait()
	}
	return err
}
