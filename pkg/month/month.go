// Package month holds the calendar screen state: the month on display, its
// grid, and a feed that regenerates the grid whenever storage changes.
package month

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/calendar"
)

// Snapshot is what the calendar screen renders.
type Snapshot struct {
	Year    int
	Month   time.Month
	Grid    calendar.Month
	Loading bool
	Err     error
}

// Title is the "January 2024" heading of the displayed month.
func (s Snapshot) Title() string {
	return fmt.Sprintf("%s %d", calendar.MonthDisplayName(s.Month), s.Year)
}

// Navigator tracks the displayed month. Loads that finish after the user
// moved to another month are discarded.
type Navigator struct {
	svc     *app.Service
	log     zerolog.Logger
	updates chan Snapshot

	mu   sync.Mutex
	snap Snapshot
	gen  uint64
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the logger for load failures.
func WithLogger(l zerolog.Logger) Option {
	return func(n *Navigator) { n.log = l }
}

// New returns a navigator positioned on today's month. Nothing is loaded
// until Refresh or a move.
func New(svc *app.Service, opts ...Option) *Navigator {
	today := svc.Today()
	n := &Navigator{
		svc:     svc,
		log:     zerolog.Nop(),
		updates: make(chan Snapshot, 1),
		snap:    Snapshot{Year: today.Year, Month: today.Month, Loading: true},
	}
	for _, opt := range opts {
		opt(n)
	}
	n.log = n.log.With().Str("component", "month").Logger()
	return n
}

// Current returns the latest snapshot.
func (n *Navigator) Current() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snap
}

// Updates delivers snapshots, keeping only the latest undelivered one.
func (n *Navigator) Updates() <-chan Snapshot {
	return n.updates
}

// Previous moves to the previous month and loads it.
func (n *Navigator) Previous(ctx context.Context) Snapshot {
	cur := n.Current()
	y, m := calendar.PreviousMonth(cur.Year, cur.Month)
	return n.Show(ctx, y, m)
}

// Next moves to the next month and loads it.
func (n *Navigator) Next(ctx context.Context) Snapshot {
	cur := n.Current()
	y, m := calendar.NextMonth(cur.Year, cur.Month)
	return n.Show(ctx, y, m)
}

// Today moves to the current month and loads it.
func (n *Navigator) Today(ctx context.Context) Snapshot {
	today := n.svc.Today()
	return n.Show(ctx, today.Year, today.Month)
}

// Refresh reloads the displayed month.
func (n *Navigator) Refresh(ctx context.Context) Snapshot {
	cur := n.Current()
	return n.Show(ctx, cur.Year, cur.Month)
}

// Show displays the given month and loads its grid. It returns the snapshot
// produced by this load, which is not published if a newer move superseded
// it.
func (n *Navigator) Show(ctx context.Context, year int, month time.Month) Snapshot {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	moved := n.snap.Year != year || n.snap.Month != month
	n.snap.Year, n.snap.Month = year, month
	n.snap.Loading = true
	if moved {
		n.snap.Grid = calendar.Month{}
	}
	n.publishLocked()
	n.mu.Unlock()

	grid, err := n.svc.Month(ctx, year, month)

	n.mu.Lock()
	defer n.mu.Unlock()
	snap := Snapshot{Year: year, Month: month, Grid: grid, Err: err}
	if err != nil {
		n.log.Error().Err(err).Int("year", year).Stringer("month", month).Msg("load month")
		// Keep the previous grid of this month visible.
		snap.Grid = n.snap.Grid
	}
	if gen != n.gen {
		return snap
	}
	n.snap = snap
	n.publishLocked()
	return snap
}

// Run refreshes the displayed month on every storage event that may affect
// it, until ctx is done or the feed closes.
func (n *Navigator) Run(ctx context.Context) error {
	events, err := n.svc.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			// Padding cells never carry entry marks, so only the
			// displayed month matters.
			cur := n.Current()
			if ev.Affects(cur.Year, cur.Month) {
				n.Refresh(ctx)
			}
		}
	}
}

func (n *Navigator) publishLocked() {
	s := n.snap
	select {
	case n.updates <- s:
		return
	default:
	}
	select {
	case <-n.updates:
	default:
	}
	select {
	case n.updates <- s:
	default:
	}
}
