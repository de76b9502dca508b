package utils

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"

	"github.com/julianstephens/focusboard/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// FormatClock renders t as a 12-hour wall clock, e.g. "9:05 PM".
func FormatClock(t time.Time) string {
	return t.Format(constants.ClockFormat)
}

// FormatLongDate renders t as "Monday, January 2".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, January 2")
}

// FormatShortDate turns a YYYY-MM-DD date into "Jan 2". Unparseable input is
// returned unchanged.
func FormatShortDate(date string) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

// ParseTimestamp parses producer timestamps leniently (ISO-8601 with or
// without offset, RFC 1123, "2006-01-02 15:04", ...). Values without an
// offset are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysSince counts whole calendar days from start to now, both taken at
// local midnight.
func DaysSince(start, now time.Time) int {
	a := StartOfDay(start.In(now.Location()))
	b := StartOfDay(now)
	return int(b.Sub(a).Round(time.Hour).Hours() / 24)
}
