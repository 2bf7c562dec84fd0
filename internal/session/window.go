// Package session tracks trading session windows and the per-symbol
// breakout box state machine that gates breakout entries.
package session

import (
	"time"

	"github.com/aurora-lab/aurora-trading/pkg/errors"
)

// Window is a configured trading session. Times are wall-clock "HH:MM" in
// the window's own timezone; a window whose end is before its start wraps
// past midnight.
type Window struct {
	Name            string   `yaml:"name" validate:"required"`
	Start           string   `yaml:"start" validate:"required"`
	End             string   `yaml:"end" validate:"required"`
	Timezone        string   `yaml:"timezone" validate:"required"`
	ExcludeWeekends bool     `yaml:"exclude_weekends"`
	ExcludeHolidays bool     `yaml:"exclude_holidays"`
	// Holidays are "YYYY-MM-DD" dates in the window's timezone
	Holidays []string `yaml:"holidays"`
	Enabled  bool     `yaml:"enabled"`
}

// DefaultWindows returns the stock US and Asian session presets.
func DefaultWindows() []Window {
	return []Window{
		{
			Name:            "us",
			Start:           "09:30",
			End:             "16:00",
			Timezone:        "America/New_York",
			ExcludeWeekends: true,
			Enabled:         true,
		},
		{
			Name:            "asia",
			Start:           "09:00",
			End:             "15:00",
			Timezone:        "Asia/Tokyo",
			ExcludeWeekends: true,
			Enabled:         true,
		},
	}
}

// Validate checks the window's times and timezone.
func (w Window) Validate() error {
	if _, err := time.LoadLocation(w.Timezone); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidTimezone, err, "session %q: bad timezone %q", w.Name, w.Timezone)
	}

	if _, err := parseClock(w.Start); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidSessionWindow, err, "session %q: bad start time %q", w.Name, w.Start)
	}

	if _, err := parseClock(w.End); err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidSessionWindow, err, "session %q: bad end time %q", w.Name, w.End)
	}

	return nil
}

// Active reports whether the window contains the given instant. A disabled
// or misconfigured window is never active.
func (w Window) Active(now time.Time) bool {
	if !w.Enabled {
		return false
	}

	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return false
	}

	local := now.In(loc)

	if w.ExcludeWeekends {
		if day := local.Weekday(); day == time.Saturday || day == time.Sunday {
			return false
		}
	}

	if w.ExcludeHolidays && w.isHoliday(local) {
		return false
	}

	start, err := parseClock(w.Start)
	if err != nil {
		return false
	}

	end, err := parseClock(w.End)
	if err != nil {
		return false
	}

	minute := local.Hour()*60 + local.Minute()

	if start <= end {
		return minute >= start && minute < end
	}

	// Window wraps past midnight
	return minute >= start || minute < end
}

func (w Window) isHoliday(local time.Time) bool {
	date := local.Format("2006-01-02")
	for _, h := range w.Holidays {
		if h == date {
			return true
		}
	}

	return false
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}

	return t.Hour()*60 + t.Minute(), nil
}
