package diary

import (
	"context"
	"time"

	"tableflip.dev/calendiary/pkg/calendar"
)

// Storage is the persistence contract for diary entries. Implementations
// must make SaveEntry and DeleteEntry atomic per date.
type Storage interface {
	// GetEntry returns the entry for date or an error matching ErrNotFound.
	GetEntry(ctx context.Context, date calendar.Date) (Entry, error)
	// SaveEntry upserts e. Blank content is rejected with ErrValidation;
	// callers delete instead.
	SaveEntry(ctx context.Context, e Entry) error
	// DeleteEntry removes the entry for date. Deleting a missing entry is
	// not an error.
	DeleteEntry(ctx context.Context, date calendar.Date) error
	// DatesWithEntries returns the dates of the month that carry an entry.
	DatesWithEntries(ctx context.Context, year int, month time.Month) (calendar.DateSet, error)
	// EntriesForMonth lists the month's entries in ascending date order.
	EntriesForMonth(ctx context.Context, year int, month time.Month) ([]Entry, error)
	// AllEntries lists every entry, most recent first.
	AllEntries(ctx context.Context) ([]Entry, error)
	// HasEntry reports whether date carries an entry.
	HasEntry(ctx context.Context, date calendar.Date) (bool, error)
	// Watch streams change notifications until ctx is cancelled. Each event
	// means "re-read"; it carries no diff.
	Watch(ctx context.Context) (<-chan Event, error)
	// Close releases backend resources.
	Close() error
}

// EventType describes a storage change notification.
type EventType int

const (
	// EventEntryChanged reports that the entry for Date was written or removed.
	EventEntryChanged EventType = iota
	// EventInvalidated asks consumers to refresh everything.
	EventInvalidated
)

// Event is emitted by Storage.Watch.
type Event struct {
	Type EventType
	Date calendar.Date
}

// Affects reports whether the event may change the given month.
func (e Event) Affects(year int, month time.Month) bool {
	if e.Type == EventInvalidated || e.Date.IsZero() {
		return true
	}
	return e.Date.SameMonth(year, month)
}
