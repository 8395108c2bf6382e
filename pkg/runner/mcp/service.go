// Package mcp provides the Model Context Protocol server integration for
// calendiary.
package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/calendiary/pkg/app"
	"tableflip.dev/calendiary/pkg/calendar"
	"tableflip.dev/calendiary/pkg/diary"
)

// Service adapts app.Service to transport-friendly DTOs for the MCP server.
type Service struct {
	App *app.Service
}

// WriteResultDTO reports what save_entry did.
type WriteResultDTO struct {
	Date   string `json:"date"`
	Result string `json:"result"`
}

// NewService builds a service over storage.
func NewService(storage diary.Storage) *Service {
	return &Service{App: &app.Service{Storage: storage}}
}

// ParseDate accepts an ISO date, "today", "yesterday" or "tomorrow".
func (s *Service) ParseDate(input string) (calendar.Date, error) {
	v := strings.ToLower(strings.TrimSpace(input))
	today := s.App.Today()
	switch v {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	return calendar.ParseDate(v)
}

// ParseMonth accepts YYYY-MM; empty means the current month.
func (s *Service) ParseMonth(input string) (int, time.Month, error) {
	v := strings.TrimSpace(input)
	if v == "" {
		today := s.App.Today()
		return today.Year, today.Month, nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return 0, 0, errors.New("month must look like 2024-01")
	}
	return t.Year(), t.Month(), nil
}

// Entry returns the entry for date, or nil when there is none.
func (s *Service) Entry(ctx context.Context, date calendar.Date) (*app.EntryView, error) {
	e, err := s.App.Entry(ctx, date)
	if diary.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	dto := app.NewEntryView(e)
	return &dto, nil
}

// Save writes content for date. Blank content deletes the entry.
func (s *Service) Save(ctx context.Context, date calendar.Date, content string) (WriteResultDTO, error) {
	res, err := s.App.Write(ctx, date, content)
	if err != nil {
		return WriteResultDTO{}, err
	}
	return WriteResultDTO{Date: date.String(), Result: res.String()}, nil
}

// Delete removes the entry for date.
func (s *Service) Delete(ctx context.Context, date calendar.Date) (WriteResultDTO, error) {
	existed, err := s.App.Delete(ctx, date)
	if err != nil {
		return WriteResultDTO{}, err
	}
	res := app.Unchanged
	if existed {
		res = app.Deleted
	}
	return WriteResultDTO{Date: date.String(), Result: res.String()}, nil
}

// ListMonth returns the month's entries in date order.
func (s *Service) ListMonth(ctx context.Context, year int, month time.Month) ([]app.EntryView, error) {
	entries, err := s.App.MonthEntries(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return app.NewEntryViews(entries), nil
}

// ListAll returns every entry, most recent first.
func (s *Service) ListAll(ctx context.Context) ([]app.EntryView, error) {
	entries, err := s.App.AllEntries(ctx)
	if err != nil {
		return nil, err
	}
	return app.NewEntryViews(entries), nil
}

// Month returns the grid for the month.
func (s *Service) Month(ctx context.Context, year int, month time.Month) (app.MonthView, error) {
	grid, err := s.App.Month(ctx, year, month)
	if err != nil {
		return app.MonthView{}, err
	}
	return app.NewMonthView(grid), nil
}
