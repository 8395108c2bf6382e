// Package diarytest provides an in-memory diary.Storage for tests.
package diarytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// Op names a recorded storage call.
type Op string

const (
	OpGet    Op = "get"
	OpSave   Op = "save"
	OpDelete Op = "delete"
)

// Call is one recorded Get/Save/Delete.
type Call struct {
	Op      Op
	Date    calendar.Date
	Content string
}

// Memory is a goroutine-safe diary.Storage. Set the Fail* fields to inject
// errors, Gate to hold Save/Delete until a value is received from it, and
// LoadGate to hold GetEntry the same way.
type Memory struct {
	mu       sync.Mutex
	entries  map[calendar.Date]diary.Entry
	calls    []Call
	watchers []chan diary.Event
	inflight int
	peak     int

	FailGet    error
	FailSave   error
	FailDelete error
	Gate       chan struct{}
	LoadGate   chan struct{}
}

// NewMemory seeds the store with entries.
func NewMemory(entries ...diary.Entry) *Memory {
	m := &Memory{entries: make(map[calendar.Date]diary.Entry)}
	for _, e := range entries {
		m.entries[e.Date] = e
	}
	return m
}

// Calls returns a copy of the recorded calls.
func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsOf returns the recorded calls of one kind.
func (m *Memory) CallsOf(op Op) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// SetFailSave swaps the injected save error under the lock.
func (m *Memory) SetFailSave(err error) {
	m.mu.Lock()
	m.FailSave = err
	m.mu.Unlock()
}

// Content returns the stored content for date.
func (m *Memory) Content(date calendar.Date) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[date]
	return e.Content, ok
}

func (m *Memory) record(c Call) {
	m.calls = append(m.calls, c)
}

// PeakConcurrent returns the highest number of Save/Delete calls observed
// running at the same time.
func (m *Memory) PeakConcurrent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}

func (m *Memory) enter() {
	m.mu.Lock()
	m.inflight++
	if m.inflight > m.peak {
		m.peak = m.inflight
	}
	m.mu.Unlock()
}

func (m *Memory) leave() {
	m.mu.Lock()
	m.inflight--
	m.mu.Unlock()
}

func (m *Memory) wait(ctx context.Context) error {
	if m.Gate == nil {
		return nil
	}
	select {
	case <-m.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Memory) GetEntry(ctx context.Context, date calendar.Date) (diary.Entry, error) {
	if m.LoadGate != nil {
		select {
		case <-m.LoadGate:
		case <-ctx.Done():
			return diary.Entry{}, diary.PersistenceFailure(date, ctx.Err())
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record(Call{Op: OpGet, Date: date})
	if m.FailGet != nil {
		return diary.Entry{}, diary.PersistenceFailure(date, m.FailGet)
	}
	e, ok := m.entries[date]
	if !ok {
		return diary.Entry{}, diary.NotFound(date)
	}
	return e, nil
}

func (m *Memory) SaveEntry(ctx context.Context, e diary.Entry) error {
	if e.Blank() {
		return diary.Validation("content cannot be blank")
	}
	m.enter()
	defer m.leave()
	if err := m.wait(ctx); err != nil {
		return diary.PersistenceFailure(e.Date, err)
	}
	m.mu.Lock()
	m.record(Call{Op: OpSave, Date: e.Date, Content: e.Content})
	if m.FailSave != nil {
		err := m.FailSave
		m.mu.Unlock()
		return diary.PersistenceFailure(e.Date, err)
	}
	e.Updated = time.Now().UTC()
	m.entries[e.Date] = e
	m.mu.Unlock()
	m.notify(diary.Event{Type: diary.EventEntryChanged, Date: e.Date})
	return nil
}

func (m *Memory) DeleteEntry(ctx context.Context, date calendar.Date) error {
	m.enter()
	defer m.leave()
	if err := m.wait(ctx); err != nil {
		return diary.PersistenceFailure(date, err)
	}
	m.mu.Lock()
	m.record(Call{Op: OpDelete, Date: date})
	if m.FailDelete != nil {
		err := m.FailDelete
		m.mu.Unlock()
		return diary.PersistenceFailure(date, err)
	}
	delete(m.entries, date)
	m.mu.Unlock()
	m.notify(diary.Event{Type: diary.EventEntryChanged, Date: date})
	return nil
}

func (m *Memory) DatesWithEntries(_ context.Context, year int, month time.Month) (calendar.DateSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := calendar.NewDateSet()
	for d := range m.entries {
		if d.SameMonth(year, month) {
			set.Add(d)
		}
	}
	return set, nil
}

func (m *Memory) EntriesForMonth(_ context.Context, year int, month time.Month) ([]diary.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []diary.Entry
	for d, e := range m.entries {
		if d.SameMonth(year, month) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *Memory) AllEntries(_ context.Context) ([]diary.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]diary.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *Memory) HasEntry(_ context.Context, date calendar.Date) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[date]
	return ok, nil
}

// Watch returns a channel fed by every successful Save/Delete.
func (m *Memory) Watch(ctx context.Context) (<-chan diary.Event, error) {
	ch := make(chan diary.Event, 16)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()
	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// Emit pushes an event to every watcher.
func (m *Memory) Emit(ev diary.Event) {
	m.notify(ev)
}

func (m *Memory) notify(ev diary.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.watchers {
		select {
		case w <- ev:
		default:
		}
	}
}

func (m *Memory) Close() error { return nil }

var _ diary.Storage = (*Memory)(nil)
