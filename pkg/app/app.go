package app

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// Service provides high-level diary operations over a Storage so the CLI and
// the MCP server share one set of rules.
type Service struct {
	Storage diary.Storage
	// Now defaults to time.Now.
	Now func() time.Time
	// Location decides what "today" is. Defaults to time.Local.
	Location *time.Location
}

var ErrNoStorage = errors.New("app: no storage configured")

// WriteResult reports what Write did.
type WriteResult int

const (
	Saved WriteResult = iota
	Deleted
	Unchanged
)

func (r WriteResult) String() string {
	switch r {
	case Saved:
		return "saved"
	case Deleted:
		return "deleted"
	}
	return "unchanged"
}

// Today returns the current date in the service location.
func (s *Service) Today() calendar.Date {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return calendar.FromTime(now().In(loc))
}

// Entry returns the entry for date. A missing entry matches diary.ErrNotFound.
func (s *Service) Entry(ctx context.Context, date calendar.Date) (diary.Entry, error) {
	if s.Storage == nil {
		return diary.Entry{}, ErrNoStorage
	}
	return s.Storage.GetEntry(ctx, date)
}

// Write stores content for date with the editor's rule: blank content
// deletes an existing entry and is otherwise a no-op.
func (s *Service) Write(ctx context.Context, date calendar.Date, content string) (WriteResult, error) {
	if s.Storage == nil {
		return Unchanged, ErrNoStorage
	}
	if !date.Valid() {
		return Unchanged, diary.Validation("invalid date " + date.String())
	}
	if diary.IsBlank(content) {
		ok, err := s.Storage.HasEntry(ctx, date)
		if err != nil {
			return Unchanged, err
		}
		if !ok {
			return Unchanged, nil
		}
		if err := s.Storage.DeleteEntry(ctx, date); err != nil {
			return Unchanged, err
		}
		return Deleted, nil
	}
	if err := s.Storage.SaveEntry(ctx, diary.New(date, content)); err != nil {
		return Unchanged, err
	}
	return Saved, nil
}

// Delete removes the entry for date. It reports whether one existed.
func (s *Service) Delete(ctx context.Context, date calendar.Date) (bool, error) {
	if s.Storage == nil {
		return false, ErrNoStorage
	}
	ok, err := s.Storage.HasEntry(ctx, date)
	if err != nil {
		return false, err
	}
	if err := s.Storage.DeleteEntry(ctx, date); err != nil {
		return false, err
	}
	return ok, nil
}

// Month builds the grid for the month, marking today and dates with entries.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (calendar.Month, error) {
	if s.Storage == nil {
		return calendar.Month{}, ErrNoStorage
	}
	dates, err := s.Storage.DatesWithEntries(ctx, year, month)
	if err != nil {
		return calendar.Month{}, err
	}
	return calendar.GenerateGrid(year, month, s.Today(), dates), nil
}

// MonthEntries lists the month's entries in date order.
func (s *Service) MonthEntries(ctx context.Context, year int, month time.Month) ([]diary.Entry, error) {
	if s.Storage == nil {
		return nil, ErrNoStorage
	}
	return s.Storage.EntriesForMonth(ctx, year, month)
}

// AllEntries lists every entry, most recent first.
func (s *Service) AllEntries(ctx context.Context) ([]diary.Entry, error) {
	if s.Storage == nil {
		return nil, ErrNoStorage
	}
	return s.Storage.AllEntries(ctx)
}

// Watch subscribes to storage change events.
func (s *Service) Watch(ctx context.Context) (<-chan diary.Event, error) {
	if s.Storage == nil {
		return nil, ErrNoStorage
	}
	return s.Storage.Watch(ctx)
}
