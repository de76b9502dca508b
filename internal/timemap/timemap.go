// Package timemap resolves the ambiguous 12/24-hour time labels of a day's
// schedule blocks into minutes since midnight and places the wall clock
// within them.
package timemap

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/models"
)

// Unknown marks a block whose time label could not be parsed.
const Unknown = -1

// MalformedTimeError reports a block whose time label is not H:MM.
type MalformedTimeError struct {
	Index  int
	Value  string
	Reason string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("block %d: malformed time %q: %s", e.Index, e.Value, e.Reason)
}

// Clock is a parsed time label. Meridiem is set when the label carried an
// explicit AM/PM marker, in which case Hour is already in 24-hour form.
type Clock struct {
	Hour     int
	Minute   int
	Meridiem bool
}

// ParseClock parses "H:MM" or "HH:MM", optionally followed by AM or PM.
func ParseClock(s string) (Clock, error) {
	v := strings.TrimSpace(s)
	upper := strings.ToUpper(v)
	meridiem := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			v = strings.TrimSpace(v[:len(v)-2])
			break
		}
	}

	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("expected H:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("hour %q is not a number", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("minute %q is not a number", parts[1])
	}
	if minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("minute %d out of range", minute)
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return Clock{}, fmt.Errorf("hour %d out of range for %s", hour, meridiem)
		}
		hour %= 12
		if meridiem == "PM" {
			hour += 12
		}
		return Clock{Hour: hour, Minute: minute, Meridiem: true}, nil
	}

	if hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("hour %d out of range", hour)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Minutes returns the raw minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// MapBlockTimes resolves every block's label to minutes since midnight.
//
// Labels are assumed chronological. When a label's raw value is earlier than
// the previous resolved value and its hour is below 12, it is taken to be
// afternoon and 720 is added. The resolved value, not the raw one, is carried
// forward. Malformed labels map to Unknown and do not move the baseline.
func MapBlockTimes(blocks []models.ScheduleBlock) ([]int, []error) {
	minutes := make([]int, len(blocks))
	var errs []error
	prev := 0
	for i, b := range blocks {
		c, err := ParseClock(b.Time)
		if err != nil {
			minutes[i] = Unknown
			errs = append(errs, &MalformedTimeError{Index: i, Value: b.Time, Reason: err.Error()})
			continue
		}
		total := c.Minutes()
		if !c.Meridiem && total < prev && c.Hour < 12 {
			total += constants.MinutesPerHalfDay
		}
		prev = total
		minutes[i] = total
	}
	return minutes, errs
}

// CurrentMinutes returns minutes since local midnight for t.
func CurrentMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// LocateTimePosition returns the index of the last block whose start is at or
// before current, or -1. Unknown entries are skipped. The scan does not
// assume the values are sorted.
func LocateTimePosition(minutes []int, current int) int {
	pos := -1
	for i, m := range minutes {
		if m == Unknown {
			continue
		}
		if current >= m {
			pos = i
		}
	}
	return pos
}

// Mapping is the result of one mapping pass over a snapshot's blocks.
type Mapping struct {
	Minutes        []int
	CurrentMinutes int
	TimePosition   int
	Errors         []error
}

// Map runs the full mapping pass for blocks at now.
func Map(blocks []models.ScheduleBlock, now time.Time) Mapping {
	minutes, errs := MapBlockTimes(blocks)
	current := CurrentMinutes(now)
	return Mapping{
		Minutes:        minutes,
		CurrentMinutes: current,
		TimePosition:   LocateTimePosition(minutes, current),
		Errors:         errs,
	}
}

// Monotonic reports whether the known resolved values never decrease.
func (m Mapping) Monotonic() bool {
	prev := Unknown
	for _, v := range m.Minutes {
		if v == Unknown {
			continue
		}
		if prev != Unknown && v < prev {
			return false
		}
		prev = v
	}
	return true
}
