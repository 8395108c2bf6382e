package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/calendiary/pkg/calendar"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions selects the date a command works on.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2024-1-15", --on="1/15" or --on=yesterday. Defaults to today.`)
}

// GetOn resolves the --on flag against today. A date without a year is the
// most recent such date, so "12/31" typed in January means last year.
func (o *OnOptions) GetOn(today calendar.Date) (calendar.Date, error) {
	v := strings.ToLower(strings.TrimSpace(o.OnString))
	switch v {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}

	if t, err := time.Parse(layoutISO, v); err == nil {
		return calendar.FromTime(t), nil
	}
	t, err := time.Parse(layoutISOShort, v)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("can not understand date %q, try 2024-1-15 or 1/15", o.OnString)
	}
	d := calendar.Date{Year: today.Year, Month: t.Month(), Day: t.Day()}
	if d.After(today) {
		d.Year--
	}
	if !d.Valid() {
		return calendar.Date{}, fmt.Errorf("%s is not a date in %d", o.OnString, d.Year)
	}
	return d, nil
}
