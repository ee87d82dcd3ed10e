package payroll

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted holiday format.
const DateLayout = "2006-01-02"

var hourNanos = decimal.NewFromInt(int64(time.Hour))

// ParseHoliday parses a YYYY-MM-DD calendar date.
func ParseHoliday(s string) (Holiday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Holiday{}, &InvalidDateError{Value: s, Err: ErrEmptyValue}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Holiday{}, &InvalidDateError{Value: s, Err: err}
	}
	return NewHoliday(t.Year(), t.Month(), t.Day()), nil
}

// HoursBetween returns the elapsed time from a to b in fractional hours.
// It is the true elapsed duration, so a span crossing midnight counts the
// full time on both sides. Negative when b is before a.
func HoursBetween(a, b time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(b.Sub(a))).Div(hourNanos)
}

// ParseTimestamp reads an export timestamp using the configured layouts,
// then the free-form parser when lenient parsing is on. Results are in the
// rules' location.
func (r Rules) ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyValue
	}
	loc := r.location()

	var firstErr error
	for _, layout := range r.TimestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	if r.LenientTimestamps {
		t, err := dateparse.ParseIn(s, loc)
		if err == nil {
			return t.In(loc), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	if firstErr == nil {
		firstErr = errors.New("no timestamp layouts configured")
	}
	return time.Time{}, firstErr
}

// civilDate truncates t to midnight of its calendar day in loc.
func civilDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
