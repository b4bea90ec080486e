// Package scheduling builds the bookable time grid of a clinic day.
//
// Everything here is pure: a Config plus a calendar date fully determine the grid.
package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/Alijeyrad/medbook_backend/config"
)

type Config struct {
	WorkStartHour   int
	WorkEndHour     int
	IntervalMinutes int
	// Location decides which calendar day a timestamp belongs to and how wall-clock
	// hours are read. Nil means UTC.
	Location *time.Location
}

func DefaultConfig() Config {
	return Config{
		WorkStartHour:   9,
		WorkEndHour:     17,
		IntervalMinutes: 30,
		Location:        time.UTC,
	}
}

// FromCentralConfig converts config.BookingConfig. An unknown timezone falls back to UTC;
// config.Validate rejects those before this point.
func FromCentralConfig(c config.BookingConfig) Config {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		loc = time.UTC
	}
	return Config{
		WorkStartHour:   c.WorkStartHour,
		WorkEndHour:     c.WorkEndHour,
		IntervalMinutes: c.IntervalMinutes,
		Location:        loc,
	}
}

func (c Config) Validate() error {
	if c.WorkStartHour < 0 || c.WorkEndHour > 24 || c.WorkStartHour >= c.WorkEndHour {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidHours, c.WorkStartHour, c.WorkEndHour)
	}
	if c.IntervalMinutes <= 0 || c.IntervalMinutes > 24*60 {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, c.IntervalMinutes)
	}
	return nil
}

func (c Config) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Generate returns the slot start times of day's calendar date, ascending, from
// WorkStartHour:00 up to but excluding WorkEndHour:00. The time of day of day is ignored.
// An invalid Config yields no slots.
func (c Config) Generate(day time.Time) []time.Time {
	if c.Validate() != nil {
		return []time.Time{}
	}

	loc := c.loc()
	y, m, d := day.In(loc).Date()
	end := time.Date(y, m, d, c.WorkEndHour, 0, 0, 0, loc)

	slots := make([]time.Time, 0, (c.WorkEndHour-c.WorkStartHour)*60/c.IntervalMinutes)
	// Each slot is built from wall-clock fields so a DST shift cannot skew the grid.
	for offset := 0; ; offset += c.IntervalMinutes {
		t := time.Date(y, m, d, c.WorkStartHour, offset, 0, 0, loc)
		if !t.Before(end) {
			break
		}
		slots = append(slots, t)
	}
	return slots
}

// DayBounds returns [midnight, next midnight) of day's calendar date.
func (c Config) DayBounds(day time.Time) (time.Time, time.Time) {
	loc := c.loc()
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// Normalize truncates t to the minute.
func Normalize(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// WithinHours reports whether WorkStartHour <= hour(t) < WorkEndHour.
func (c Config) WithinHours(t time.Time) bool {
	h := t.In(c.loc()).Hour()
	return h >= c.WorkStartHour && h < c.WorkEndHour
}

// Aligned reports whether t sits on the grid: whole minutes since WorkStartHour:00
// that are a multiple of the interval.
func (c Config) Aligned(t time.Time) bool {
	if c.IntervalMinutes <= 0 {
		return false
	}
	local := t.In(c.loc())
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	minutes := (local.Hour()-c.WorkStartHour)*60 + local.Minute()
	return minutes >= 0 && minutes%c.IntervalMinutes == 0
}

// Bookable combines WithinHours and Aligned.
func (c Config) Bookable(t time.Time) bool {
	return c.WithinHours(t) && c.Aligned(t)
}

var zonedLayouts = []string{
	time.RFC3339, // fractional seconds are accepted when parsing
}

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp reads an ISO-8601 timestamp. Inputs without a zone are read in Location.
func (c Config) ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, s)
}

// ParseDay reads a calendar date (YYYY-MM-DD) or any timestamp ParseTimestamp accepts,
// and returns midnight of that date in Location.
func (c Config) ParseDay(s string) (time.Time, error) {
	t, err := c.ParseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	start, _ := c.DayBounds(t)
	return start, nil
}
