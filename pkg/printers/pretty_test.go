package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

func init() {
	color.NoColor = true
}

func TestMonthLayout(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Month(calendar.GenerateGrid(2024, time.March, calendar.Date{}, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if !strings.Contains(lines[0], "March 2024") {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if lines[1] != "Mo Tu We Th Fr Sa Su" {
		t.Fatalf("unexpected headers %q", lines[1])
	}
	if lines[2] != "26 27 28 29  1  2  3" {
		t.Fatalf("unexpected first week %q", lines[2])
	}
	if got := len(lines) - 2; got != 5 {
		t.Fatalf("expected 5 weeks, got %d", got)
	}
}

func TestEntriesTable(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Entries(
		diary.New(calendar.Date{Year: 2024, Month: time.January, Day: 15}, "first line\nsecond"),
	)
	out := buf.String()
	for _, want := range []string{"Date", "2024-01-15", "Mon", "first line"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if strings.Contains(out, "second") {
		t.Fatalf("preview should stop at the first line: %q", out)
	}
}

func TestEntryWraps(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf, Width: 20}
	pp.Entry(diary.New(calendar.Date{Year: 2024, Month: time.January, Day: 15}, "the quick brown fox jumps over the lazy dog"))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "Monday, January 15, 2024" {
		t.Fatalf("unexpected heading %q", lines[0])
	}
	for _, l := range lines[1:] {
		if len(l) > 20 {
			t.Fatalf("line too long: %q", l)
		}
		if l != "" && !strings.HasPrefix(l, "  ") {
			t.Fatalf("body not indented: %q", l)
		}
	}
}
