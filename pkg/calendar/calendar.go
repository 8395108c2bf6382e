// Package calendar generates Monday-first month grids for the diary view.
package calendar

import (
	"fmt"
	"time"
)

// Day is a single cell of a month grid. It is one of InMonthDay,
// AdjacentMonthDay or EmptyDay; switch on the concrete type to render it.
type Day interface {
	isDay()
}

// InMonthDay is a day that belongs to the displayed month.
type InMonthDay struct {
	Date     Date
	IsToday  bool
	HasEntry bool
}

// AdjacentMonthDay pads the first or last week with a day borrowed from the
// previous or next month. It is rendered dimmed but can still be selected.
type AdjacentMonthDay struct {
	Date Date
}

// EmptyDay is a cell without a date.
type EmptyDay struct{}

func (InMonthDay) isDay()       {}
func (AdjacentMonthDay) isDay() {}
func (EmptyDay) isDay()         {}

// DateOf returns the date carried by a cell, if any.
func DateOf(d Day) (Date, bool) {
	switch v := d.(type) {
	case InMonthDay:
		return v.Date, true
	case AdjacentMonthDay:
		return v.Date, true
	default:
		return Date{}, false
	}
}

// Month is a whole-week grid for one month. len(Days) is always a multiple
// of seven.
type Month struct {
	Year  int
	Month time.Month
	Days  []Day
}

// Weeks splits the grid into rows of seven days.
func (m Month) Weeks() [][]Day {
	weeks := make([][]Day, 0, len(m.Days)/7)
	for i := 0; i+7 <= len(m.Days); i += 7 {
		weeks = append(weeks, m.Days[i:i+7])
	}
	return weeks
}

// Title returns e.g. "January 2024".
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", MonthDisplayName(m.Month), m.Year)
}

// IndexOf returns the grid position of date, or -1.
func (m Month) IndexOf(date Date) int {
	for i, d := range m.Days {
		if got, ok := DateOf(d); ok && got == date {
			return i
		}
	}
	return -1
}

// GenerateGrid builds the grid for year/month. Cells before the first and
// after the last day are filled from the adjacent months so the grid spans
// whole Monday-to-Sunday weeks. today is flagged only when it falls inside
// the month; withEntries may be nil.
func GenerateGrid(year int, month time.Month, today Date, withEntries DateSet) Month {
	first := Date{Year: year, Month: month, Day: 1}
	last := Date{Year: year, Month: month, Day: DaysIn(year, month)}

	lead := leadingPadding(first.Weekday())
	total := lead + last.Day
	days := make([]Day, 0, total+trailingPadding(total))

	for i := lead; i > 0; i-- {
		days = append(days, AdjacentMonthDay{Date: first.AddDays(-i)})
	}

	for d := 1; d <= last.Day; d++ {
		date := Date{Year: year, Month: month, Day: d}
		days = append(days, InMonthDay{
			Date:     date,
			IsToday:  date == today,
			HasEntry: withEntries.Has(date),
		})
	}

	for i := 1; i <= trailingPadding(len(days)); i++ {
		days = append(days, AdjacentMonthDay{Date: last.AddDays(i)})
	}

	return Month{Year: year, Month: month, Days: days}
}

// leadingPadding is the number of days between Monday and weekday.
func leadingPadding(weekday time.Weekday) int {
	return (int(weekday) - int(time.Monday) + 7) % 7
}

func trailingPadding(emitted int) int {
	return (7 - emitted%7) % 7
}

// IsLeapYear applies the proleptic Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// PreviousMonth steps back one month, rolling the year over in January.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps forward one month, rolling the year over in December.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// MonthDisplayName returns the English month name.
func MonthDisplayName(month time.Month) string {
	return month.String()
}

var dayHeaders = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayHeaders returns the weekday abbreviations in grid order.
func DayHeaders() []string {
	out := make([]string, len(dayHeaders))
	copy(out, dayHeaders[:])
	return out
}

// FormatLong renders a date as "Monday, January 15, 2024".
func FormatLong(d Date) string {
	return fmt.Sprintf("%s, %s %d, %d", d.Weekday(), MonthDisplayName(d.Month), d.Day, d.Year)
}
