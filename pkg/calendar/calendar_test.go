package calendar

import (
	"testing"
	"time"
)

func TestGenerateGridAlwaysWholeWeeks(t *testing.T) {
	for year := 1899; year <= 2101; year++ {
		for month := time.January; month <= time.December; month++ {
			grid := GenerateGrid(year, month, Date{}, nil)
			if len(grid.Days)%7 != 0 {
				t.Fatalf("%d-%02d: %d cells is not a multiple of 7", year, month, len(grid.Days))
			}
			if len(grid.Days) < DaysIn(year, month) || len(grid.Days) > 42 {
				t.Fatalf("%d-%02d: unexpected cell count %d", year, month, len(grid.Days))
			}
		}
	}
}

func TestGenerateGridInMonthDaysContiguous(t *testing.T) {
	grid := GenerateGrid(2024, time.February, Date{}, nil)
	want := 1
	var prev Date
	for i, cell := range grid.Days {
		date, ok := DateOf(cell)
		if !ok {
			t.Fatalf("cell %d has no date", i)
		}
		if i > 0 && !prev.Before(date) {
			t.Fatalf("cell %d: %s not after %s", i, date, prev)
		}
		prev = date
		day, ok := cell.(InMonthDay)
		if !ok {
			continue
		}
		if day.Date.Day != want {
			t.Fatalf("expected day %d, got %d", want, day.Date.Day)
		}
		want++
	}
	if want-1 != 29 {
		t.Fatalf("expected 29 in-month days for February 2024, got %d", want-1)
	}
}

func TestDaysInFebruary(t *testing.T) {
	tests := map[int]int{
		2000: 29,
		1900: 28,
		2024: 29,
		2023: 28,
		2100: 28,
		2400: 29,
	}
	for year, want := range tests {
		if got := DaysIn(year, time.February); got != want {
			t.Errorf("DaysIn(%d, February) = %d, want %d", year, got, want)
		}
		if got := IsLeapYear(year); got != (want == 29) {
			t.Errorf("IsLeapYear(%d) = %v", year, got)
		}
	}
}

func TestGenerateGridJanuary2024(t *testing.T) {
	today := Date{Year: 2024, Month: time.January, Day: 1}
	grid := GenerateGrid(2024, time.January, today, nil)

	// January 1st 2024 is a Monday, so there is no leading padding.
	first, ok := grid.Days[0].(InMonthDay)
	if !ok {
		t.Fatalf("expected first cell to be in-month, got %T", grid.Days[0])
	}
	if first.Date != today || !first.IsToday {
		t.Fatalf("unexpected first cell %+v", first)
	}
	if len(grid.Days) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(grid.Days))
	}
	last, ok := grid.Days[34].(AdjacentMonthDay)
	if !ok || last.Date != (Date{Year: 2024, Month: time.February, Day: 4}) {
		t.Fatalf("unexpected last cell %#v", grid.Days[34])
	}
	if n := countToday(grid); n != 1 {
		t.Fatalf("expected exactly one today cell, got %d", n)
	}
}

func TestGenerateGridLeadingPadding(t *testing.T) {
	// March 1st 2024 is a Friday: four days of February lead the grid.
	grid := GenerateGrid(2024, time.March, Date{}, nil)
	want := []Date{
		{2024, time.February, 26},
		{2024, time.February, 27},
		{2024, time.February, 28},
		{2024, time.February, 29},
	}
	for i, d := range want {
		cell, ok := grid.Days[i].(AdjacentMonthDay)
		if !ok {
			t.Fatalf("cell %d: expected adjacent day, got %T", i, grid.Days[i])
		}
		if cell.Date != d {
			t.Fatalf("cell %d: expected %s, got %s", i, d, cell.Date)
		}
	}
	if _, ok := grid.Days[4].(InMonthDay); !ok {
		t.Fatalf("expected March 1st at index 4, got %T", grid.Days[4])
	}
}

func TestGenerateGridYearRollover(t *testing.T) {
	// January 1st 2023 is a Sunday.
	jan := GenerateGrid(2023, time.January, Date{}, nil)
	lead, ok := jan.Days[0].(AdjacentMonthDay)
	if !ok || lead.Date != (Date{2022, time.December, 26}) {
		t.Fatalf("unexpected first cell %#v", jan.Days[0])
	}

	dec := GenerateGrid(2024, time.December, Date{}, nil)
	tail, ok := dec.Days[len(dec.Days)-1].(AdjacentMonthDay)
	if !ok || tail.Date != (Date{2025, time.January, 5}) {
		t.Fatalf("unexpected last cell %#v", dec.Days[len(dec.Days)-1])
	}
}

func TestGenerateGridTodayOnlyInsideMonth(t *testing.T) {
	// February 1st is the trailing padding of the January grid.
	today := Date{Year: 2024, Month: time.February, Day: 1}
	grid := GenerateGrid(2024, time.January, today, nil)
	if n := countToday(grid); n != 0 {
		t.Fatalf("expected no today cell, got %d", n)
	}
	if grid.IndexOf(today) < 0 {
		t.Fatalf("expected %s to appear as padding", today)
	}
}

func TestGenerateGridHasEntry(t *testing.T) {
	entries := NewDateSet(
		Date{2024, time.May, 3},
		Date{2024, time.May, 17},
		Date{2024, time.April, 30},
	)
	grid := GenerateGrid(2024, time.May, Date{}, entries)
	var marked []int
	for _, cell := range grid.Days {
		if d, ok := cell.(InMonthDay); ok && d.HasEntry {
			marked = append(marked, d.Date.Day)
		}
	}
	if len(marked) != 2 || marked[0] != 3 || marked[1] != 17 {
		t.Fatalf("unexpected entry days %v", marked)
	}
}

func TestPreviousNextMonth(t *testing.T) {
	if y, m := PreviousMonth(2024, time.January); y != 2023 || m != time.December {
		t.Fatalf("PreviousMonth(2024, January) = %d %s", y, m)
	}
	if y, m := NextMonth(2024, time.December); y != 2025 || m != time.January {
		t.Fatalf("NextMonth(2024, December) = %d %s", y, m)
	}
	if y, m := NextMonth(2024, time.June); y != 2024 || m != time.July {
		t.Fatalf("NextMonth(2024, June) = %d %s", y, m)
	}
}

func TestWeeksAndHeaders(t *testing.T) {
	grid := GenerateGrid(2024, time.September, Date{}, nil)
	weeks := grid.Weeks()
	if len(weeks)*7 != len(grid.Days) {
		t.Fatalf("weeks do not cover the grid: %d weeks for %d days", len(weeks), len(grid.Days))
	}
	for _, w := range weeks {
		d, _ := DateOf(w[0])
		if d.Weekday() != time.Monday {
			t.Fatalf("week starts on %s", d.Weekday())
		}
	}
	headers := DayHeaders()
	if len(headers) != 7 || headers[0] != "Mon" || headers[6] != "Sun" {
		t.Fatalf("unexpected headers %v", headers)
	}
	headers[0] = "x"
	if DayHeaders()[0] != "Mon" {
		t.Fatalf("DayHeaders must return a copy")
	}
	if grid.Title() != "September 2024" {
		t.Fatalf("unexpected title %q", grid.Title())
	}
}

func TestFormatLong(t *testing.T) {
	got := FormatLong(Date{2024, time.January, 15})
	if got != "Monday, January 15, 2024" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestDateOrderingAndParsing(t *testing.T) {
	a, err := ParseDate("2023-12-31")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b := a.AddDays(1)
	if b != (Date{2024, time.January, 1}) {
		t.Fatalf("unexpected %s", b)
	}
	if !a.Before(b) || !b.After(a) || a.Compare(a) != 0 {
		t.Fatalf("ordering broken for %s and %s", a, b)
	}
	if (Date{2023, time.February, 29}).Valid() {
		t.Fatalf("2023-02-29 should be invalid")
	}
	if _, err := ParseDate("2024-13-01"); err == nil {
		t.Fatalf("expected parse error")
	}
	if NewDate(2024, time.January, 32) != (Date{2024, time.February, 1}) {
		t.Fatalf("NewDate should normalise")
	}
}

func countToday(m Month) int {
	n := 0
	for _, cell := range m.Days {
		if d, ok := cell.(InMonthDay); ok && d.IsToday {
			n++
		}
	}
	return n
}
