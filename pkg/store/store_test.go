package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

var fixedNow = time.Date(2024, time.January, 20, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type backend struct {
	name string
	open func(t *testing.T) diary.Storage
}

func backends() []backend {
	return []backend{{
		name: BackendDiskv,
		open: func(t *testing.T) diary.Storage {
			return NewDisk(t.TempDir(), WithClock(fixedClock))
		},
	}, {
		name: BackendSQLite,
		open: func(t *testing.T) diary.Storage {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "diary.sqlite"), WithClock(fixedClock))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}}
}

func d(year int, month time.Month, day int) calendar.Date {
	return calendar.Date{Year: year, Month: month, Day: day}
}

func TestStorageRoundTrip(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)
			date := d(2024, time.January, 15)

			_, err := s.GetEntry(ctx, date)
			require.Error(t, err)
			assert.ErrorIs(t, err, diary.ErrNotFound)

			require.NoError(t, s.SaveEntry(ctx, diary.New(date, "first")))
			require.NoError(t, s.SaveEntry(ctx, diary.New(date, "second\nline")))

			got, err := s.GetEntry(ctx, date)
			require.NoError(t, err)
			assert.Equal(t, date, got.Date)
			assert.Equal(t, "second\nline", got.Content)
			assert.True(t, got.Updated.Equal(fixedNow), "updated %s", got.Updated)

			ok, err := s.HasEntry(ctx, date)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestStorageRejectsBlankContent(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)
			err := s.SaveEntry(ctx, diary.New(d(2024, time.January, 15), "  \n"))
			assert.ErrorIs(t, err, diary.ErrValidation)

			ok, err := s.HasEntry(ctx, d(2024, time.January, 15))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStorageDeleteIsIdempotent(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)
			date := d(2024, time.February, 29)

			require.NoError(t, s.DeleteEntry(ctx, date))
			require.NoError(t, s.SaveEntry(ctx, diary.New(date, "leap")))
			require.NoError(t, s.DeleteEntry(ctx, date))
			require.NoError(t, s.DeleteEntry(ctx, date))

			_, err := s.GetEntry(ctx, date)
			assert.True(t, diary.IsNotFound(err))
		})
	}
}

func TestStorageMonthQueries(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t)
			for _, e := range []diary.Entry{
				diary.New(d(2023, time.December, 31), "new year's eve"),
				diary.New(d(2024, time.January, 1), "new year"),
				diary.New(d(2024, time.January, 31), "end of january"),
				diary.New(d(2024, time.January, 10), "middle"),
				diary.New(d(2024, time.February, 1), "february"),
			} {
				require.NoError(t, s.SaveEntry(ctx, e))
			}

			set, err := s.DatesWithEntries(ctx, 2024, time.January)
			require.NoError(t, err)
			assert.Len(t, set, 3)
			assert.True(t, set.Has(d(2024, time.January, 1)))
			assert.True(t, set.Has(d(2024, time.January, 10)))
			assert.True(t, set.Has(d(2024, time.January, 31)))
			assert.False(t, set.Has(d(2023, time.December, 31)))

			month, err := s.EntriesForMonth(ctx, 2024, time.January)
			require.NoError(t, err)
			require.Len(t, month, 3)
			assert.Equal(t, "new year", month[0].Content)
			assert.Equal(t, "middle", month[1].Content)
			assert.Equal(t, "end of january", month[2].Content)

			empty, err := s.EntriesForMonth(ctx, 2024, time.March)
			require.NoError(t, err)
			assert.Empty(t, empty)

			all, err := s.AllEntries(ctx)
			require.NoError(t, err)
			require.Len(t, all, 5)
			assert.Equal(t, d(2024, time.February, 1), all[0].Date)
			assert.Equal(t, d(2023, time.December, 31), all[4].Date)
		})
	}
}

func TestStorageMonthQueriesWrapCancellation(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			require.NoError(t, s.SaveEntry(context.Background(), diary.New(d(2024, time.January, 1), "new year")))

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := s.DatesWithEntries(ctx, 2024, time.January)
			assert.ErrorIs(t, err, diary.ErrPersistence)
			assert.ErrorIs(t, err, context.Canceled)

			_, err = s.EntriesForMonth(ctx, 2024, time.January)
			assert.ErrorIs(t, err, diary.ErrPersistence)

			_, err = s.AllEntries(ctx)
			assert.ErrorIs(t, err, diary.ErrPersistence)
		})
	}
}

func TestStorageWatchReportsSaves(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			s := b.open(t)

			ch, err := s.Watch(ctx)
			require.NoError(t, err)

			// Allow the watcher goroutine to subscribe before writing.
			time.Sleep(50 * time.Millisecond)

			date := d(2024, time.March, 8)
			require.NoError(t, s.SaveEntry(context.Background(), diary.New(date, "hello world")))

			deadline := time.After(2 * time.Second)
			for {
				select {
				case ev, ok := <-ch:
					require.True(t, ok, "watch channel closed early")
					if ev.Type == diary.EventInvalidated {
						return
					}
					assert.Equal(t, diary.EventEntryChanged, ev.Type)
					assert.Equal(t, date, ev.Date)
					return
				case <-deadline:
					t.Fatal("timed out waiting for change event")
				}
			}
		})
	}
}

func TestStorageWatchClosesWithContext(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			s := b.open(t)
			ch, err := s.Watch(ctx)
			require.NoError(t, err)
			cancel()

			require.Eventually(t, func() bool {
				select {
				case _, ok := <-ch:
					return !ok
				default:
					return false
				}
			}, 2*time.Second, 10*time.Millisecond)
		})
	}
}
