package app

import (
	"time"

	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// EntryView is a JSON friendly projection of an entry.
type EntryView struct {
	Date        string `json:"date"`
	DateDisplay string `json:"dateDisplay"`
	Content     string `json:"content"`
	Preview     string `json:"preview"`
	UpdatedISO  string `json:"updated,omitempty"`
}

// DayView is one calendar cell.
type DayView struct {
	Date     string `json:"date,omitempty"`
	Day      int    `json:"day,omitempty"`
	InMonth  bool   `json:"inMonth"`
	IsToday  bool   `json:"isToday,omitempty"`
	HasEntry bool   `json:"hasEntry,omitempty"`
}

// MonthView is a month grid, one row per week starting on Monday.
type MonthView struct {
	Title   string      `json:"title"`
	Year    int         `json:"year"`
	Month   int         `json:"month"`
	Headers []string    `json:"headers"`
	Weeks   [][]DayView `json:"weeks"`
}

// NewEntryView projects e.
func NewEntryView(e diary.Entry) EntryView {
	v := EntryView{
		Date:        e.Date.String(),
		DateDisplay: calendar.FormatLong(e.Date),
		Content:     e.Content,
		Preview:     e.Preview(80),
	}
	if !e.Updated.IsZero() {
		v.UpdatedISO = e.Updated.Format(time.RFC3339)
	}
	return v
}

// NewEntryViews projects entries, keeping their order.
func NewEntryViews(entries []diary.Entry) []EntryView {
	out := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewEntryView(e))
	}
	return out
}

// NewMonthView projects grid.
func NewMonthView(grid calendar.Month) MonthView {
	out := MonthView{
		Title:   grid.Title(),
		Year:    grid.Year,
		Month:   int(grid.Month),
		Headers: calendar.DayHeaders(),
	}
	for _, week := range grid.Weeks() {
		row := make([]DayView, 0, len(week))
		for _, cell := range week {
			row = append(row, newDayView(cell))
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out
}

func newDayView(cell calendar.Day) DayView {
	switch c := cell.(type) {
	case calendar.InMonthDay:
		return DayView{Date: c.Date.String(), Day: c.Date.Day, InMonth: true, IsToday: c.IsToday, HasEntry: c.HasEntry}
	case calendar.AdjacentMonthDay:
		return DayView{Date: c.Date.String(), Day: c.Date.Day}
	}
	return DayView{}
}
