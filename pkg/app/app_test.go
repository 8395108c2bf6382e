package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
	"tableflip.dev/calendiary/pkg/diary/diarytest"
)

var jan15 = calendar.Date{Year: 2024, Month: time.January, Day: 15}

func newService(entries ...diary.Entry) (*Service, *diarytest.Memory) {
	mem := diarytest.NewMemory(entries...)
	return &Service{
		Storage:  mem,
		Now:      func() time.Time { return time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC) },
		Location: time.UTC,
	}, mem
}

func TestWriteSavesContent(t *testing.T) {
	svc, mem := newService()
	res, err := svc.Write(context.Background(), jan15, "hello")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if res != Saved {
		t.Fatalf("expected saved, got %s", res)
	}
	if got, _ := mem.Content(jan15); got != "hello" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestWriteBlankDeletesExisting(t *testing.T) {
	svc, mem := newService(diary.New(jan15, "hello"))
	res, err := svc.Write(context.Background(), jan15, " \n ")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if res != Deleted {
		t.Fatalf("expected deleted, got %s", res)
	}
	if _, ok := mem.Content(jan15); ok {
		t.Fatalf("entry should be gone")
	}
	if n := len(mem.CallsOf(diarytest.OpSave)); n != 0 {
		t.Fatalf("blank content must never be saved, saw %d saves", n)
	}
}

func TestWriteBlankWithoutEntryIsNoop(t *testing.T) {
	svc, mem := newService()
	res, err := svc.Write(context.Background(), jan15, "")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if res != Unchanged {
		t.Fatalf("expected unchanged, got %s", res)
	}
	if calls := mem.Calls(); len(calls) != 0 {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestWriteInvalidDate(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Write(context.Background(), calendar.Date{Year: 2023, Month: time.February, Day: 29}, "x")
	if !errors.Is(err, diary.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWritePropagatesStorageFailure(t *testing.T) {
	svc, mem := newService()
	mem.FailSave = errors.New("disk full")
	_, err := svc.Write(context.Background(), jan15, "hello")
	if !errors.Is(err, diary.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	svc, _ := newService(diary.New(jan15, "hello"))
	existed, err := svc.Delete(context.Background(), jan15)
	if err != nil || !existed {
		t.Fatalf("first delete: existed=%v err=%v", existed, err)
	}
	existed, err = svc.Delete(context.Background(), jan15)
	if err != nil || existed {
		t.Fatalf("second delete: existed=%v err=%v", existed, err)
	}
}

func TestMonthMarksTodayAndEntries(t *testing.T) {
	svc, _ := newService(diary.New(jan15, "hello"), diary.New(calendar.Date{Year: 2024, Month: time.January, Day: 3}, "x"))
	grid, err := svc.Month(context.Background(), 2024, time.January)
	if err != nil {
		t.Fatalf("month: %v", err)
	}
	var today, marked int
	for _, cell := range grid.Days {
		day, ok := cell.(calendar.InMonthDay)
		if !ok {
			continue
		}
		if day.IsToday {
			today++
			if day.Date != jan15 {
				t.Fatalf("today is %s", day.Date)
			}
		}
		if day.HasEntry {
			marked++
		}
	}
	if today != 1 || marked != 2 {
		t.Fatalf("today=%d marked=%d", today, marked)
	}
}

func TestTodayUsesLocation(t *testing.T) {
	svc, _ := newService()
	tokyo := time.FixedZone("JST", 9*3600)
	svc.Location = tokyo
	if got := svc.Today(); got != (calendar.Date{Year: 2024, Month: time.January, Day: 16}) {
		t.Fatalf("unexpected today %s", got)
	}
}

func TestNoStorage(t *testing.T) {
	var svc Service
	if _, err := svc.Entry(context.Background(), jan15); !errors.Is(err, ErrNoStorage) {
		t.Fatalf("expected ErrNoStorage, got %v", err)
	}
	if _, err := svc.Month(context.Background(), 2024, time.January); !errors.Is(err, ErrNoStorage) {
		t.Fatalf("expected ErrNoStorage, got %v", err)
	}
}
