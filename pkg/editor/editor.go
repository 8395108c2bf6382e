// Package editor implements the per-date entry editor: it loads the entry,
// tracks edits against the last persisted content, debounces auto-save, and
// flushes pending edits when the editor is closed.
package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// DefaultDelay is the auto-save debounce window.
const DefaultDelay = 1500 * time.Millisecond

// Phase is the coarse state of an editor, derived from State.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseIdle
	PhaseSaving
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseIdle:
		return "idle"
	case PhaseSaving:
		return "saving"
	case PhaseError:
		return "error"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is a snapshot of an editor.
type State struct {
	Date              calendar.Date
	DateDisplay       string
	Content           string
	Loading           bool
	Saving            bool
	HasUnsavedChanges bool
	Err               error
}

// Phase reports Loading, Saving, Error or Idle, in that precedence.
func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Saving:
		return PhaseSaving
	case s.Err != nil:
		return PhaseError
	}
	return PhaseIdle
}

// ErrorMessage returns the human readable error, or "".
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

type op int

const (
	opNone op = iota
	opSave
	opDelete
)

func (o op) String() string {
	switch o {
	case opSave:
		return "save"
	case opDelete:
		return "delete"
	}
	return "none"
}

// Option configures an Editor.
type Option func(*Editor)

// WithDelay overrides the auto-save debounce window.
func WithDelay(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.delay = d
		}
	}
}

// WithLogger sets the logger used for storage failures.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Editor) {
		e.log = l
	}
}

// Editor owns the editing session of one date. At most one Save or Delete
// runs at a time; requests made meanwhile are queued and the latest one runs
// when the current operation resolves.
type Editor struct {
	date    calendar.Date
	storage diary.Storage
	delay   time.Duration
	log     zerolog.Logger

	ctx        context.Context
	cancelLoad context.CancelFunc
	ops        sync.WaitGroup
	updates    chan State

	mu       sync.Mutex
	state    State
	baseline string
	timer    *time.Timer
	gen      uint64
	inFlight bool
	queued   op
	closed   bool
}

// New opens an editor for date and starts loading its entry. ctx bounds
// every storage call made by the editor, including the flush in Close.
func New(ctx context.Context, date calendar.Date, storage diary.Storage, opts ...Option) *Editor {
	e := &Editor{
		date:    date,
		storage: storage,
		delay:   DefaultDelay,
		log:     zerolog.Nop(),
		ctx:     ctx,
		updates: make(chan State, 1),
		state: State{
			Date:        date,
			DateDisplay: calendar.FormatLong(date),
			Loading:     true,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With().Str("component", "editor").Stringer("date", date).Logger()

	loadCtx, cancel := context.WithCancel(ctx)
	e.cancelLoad = cancel
	e.publishLocked()
	go e.load(loadCtx)
	return e
}

// Date returns the date being edited.
func (e *Editor) Date() calendar.Date { return e.date }

// State returns the current snapshot.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Updates delivers state snapshots. Only the latest undelivered snapshot is
// kept. The channel is closed by Close.
func (e *Editor) Updates() <-chan State {
	return e.updates
}

func (e *Editor) load(ctx context.Context) {
	entry, err := e.storage.GetEntry(ctx, e.date)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.state.Loading = false
	switch {
	case err == nil:
		e.baseline = entry.Content
	case diary.IsNotFound(err):
		e.baseline = ""
	default:
		e.baseline = ""
		e.state.Err = err
		e.log.Error().Err(err).Msg("load entry")
	}
	e.state.Content = e.baseline
	e.state.HasUnsavedChanges = false
	e.publishLocked()
}

// runQueuedLocked starts the queued operation if it is still needed, and
// publishes the state either way.
func (e *Editor) runQueuedLocked() {
	next := e.queued
	e.queued = opNone
	if next == opDelete || (next == opSave && e.state.HasUnsavedChanges) {
		if e.startLocked(next) {
			return
		}
	}
	e.publishLocked()
}

// Edit replaces the content and restarts the auto-save timer. It clears any
// previous error. Edits are ignored until the entry has loaded.
func (e *Editor) Edit(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.Loading {
		return
	}
	e.state.Content = content
	e.state.HasUnsavedChanges = content != e.baseline
	e.state.Err = nil

	e.stopTimerLocked()
	gen := e.gen
	e.timer = time.AfterFunc(e.delay, func() { e.fire(gen) })
	e.publishLocked()
}

// Save persists the content now. A blank content deletes the entry when one
// was stored before. Save does nothing without unsaved changes.
func (e *Editor) Save() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.Loading {
		return
	}
	e.stopTimerLocked()
	if !e.state.HasUnsavedChanges {
		return
	}
	e.requestLocked(opSave)
}

// Delete removes the entry for the date. It is ignored until the entry has
// loaded.
func (e *Editor) Delete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.state.Loading {
		return
	}
	e.stopTimerLocked()
	e.requestLocked(opDelete)
}

func (e *Editor) fire(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || gen != e.gen {
		return
	}
	e.timer = nil
	if !e.state.HasUnsavedChanges {
		return
	}
	e.requestLocked(opSave)
}

// stopTimerLocked cancels the pending auto-save. Bumping gen makes a timer
// that already fired but is waiting on mu a no-op.
func (e *Editor) stopTimerLocked() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Editor) requestLocked(o op) {
	if e.inFlight {
		e.queued = o
		return
	}
	if !e.startLocked(o) {
		e.publishLocked()
	}
}

// startLocked launches o in the background and reports whether it did.
func (e *Editor) startLocked(o op) bool {
	content := e.state.Content
	if o == opSave && diary.IsBlank(content) {
		if diary.IsBlank(e.baseline) {
			return false
		}
		o = opDelete
	}

	e.inFlight = true
	e.state.Saving = true
	e.publishLocked()

	e.ops.Add(1)
	go e.run(o, content)
	return true
}

func (e *Editor) run(o op, content string) {
	defer e.ops.Done()

	var err error
	switch o {
	case opSave:
		err = e.storage.SaveEntry(e.ctx, diary.New(e.date, content))
	case opDelete:
		err = e.storage.DeleteEntry(e.ctx, e.date)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false
	e.state.Saving = false
	if err != nil {
		e.state.Err = err
		e.log.Error().Err(err).Stringer("op", o).Msg("persist entry")
	} else {
		e.state.Err = nil
		switch o {
		case opSave:
			e.baseline = content
		case opDelete:
			e.baseline = ""
			if e.state.Content == content {
				e.state.Content = ""
			}
		}
		e.log.Debug().Stringer("op", o).Msg("persisted entry")
	}
	e.state.HasUnsavedChanges = e.state.Content != e.baseline

	if e.closed {
		e.queued = opNone
		return
	}
	e.runQueuedLocked()
}

// Close cancels the auto-save timer, waits for any running operation, and
// persists unsaved changes one last time. Nothing is written when the entry
// had not finished loading. No state is published once Close
// starts. The returned error is the flush failure, if any.
func (e *Editor) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.stopTimerLocked()
	e.cancelLoad()
	close(e.updates)
	e.mu.Unlock()

	e.ops.Wait()

	e.mu.Lock()
	content, baseline := e.state.Content, e.baseline
	dirty := e.state.HasUnsavedChanges && !e.state.Loading
	e.mu.Unlock()
	// An entry that never loaded has no known baseline to flush against.
	if !dirty {
		return nil
	}

	var err error
	switch {
	case !diary.IsBlank(content):
		err = e.storage.SaveEntry(ctx, diary.New(e.date, content))
	case !diary.IsBlank(baseline):
		err = e.storage.DeleteEntry(ctx, e.date)
	default:
		return nil
	}
	if err != nil {
		e.log.Error().Err(err).Msg("flush entry on close")
		return fmt.Errorf("editor: flush %s: %w", e.date, err)
	}
	e.log.Debug().Msg("flushed entry on close")
	return nil
}

func (e *Editor) publishLocked() {
	s := e.state
	select {
	case e.updates <- s:
		return
	default:
	}
	select {
	case <-e.updates:
	default:
	}
	select {
	case e.updates <- s:
	default:
	}
}
