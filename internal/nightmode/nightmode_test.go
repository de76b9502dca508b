package nightmode

import (
	"testing"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
)

func at(hour int) time.Time {
	return time.Date(2026, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestIsNight(t *testing.T) {
	w := DefaultWindow()
	tests := []struct {
		name   string
		hour   int
		mode   constants.OverrideMode
		forced bool
		want   bool
	}{
		{name: "evening auto", hour: 19, mode: constants.OverrideAuto, want: true},
		{name: "start hour inclusive", hour: 18, mode: constants.OverrideAuto, want: true},
		{name: "early morning", hour: 3, mode: constants.OverrideAuto, want: true},
		{name: "end hour exclusive", hour: 5, mode: constants.OverrideAuto, want: false},
		{name: "midday", hour: 12, mode: constants.OverrideAuto, want: false},
		{name: "day override at night", hour: 19, mode: constants.OverrideDay, want: false},
		{name: "night override at noon", hour: 12, mode: constants.OverrideNight, want: true},
		{name: "forced beats day override", hour: 12, mode: constants.OverrideDay, forced: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNight(at(tt.hour), w, tt.mode, tt.forced); got != tt.want {
				t.Errorf("IsNight(hour=%d, %s, forced=%v) = %v, want %v", tt.hour, tt.mode, tt.forced, got, tt.want)
			}
		})
	}
}

func TestWindowSameDay(t *testing.T) {
	w := Window{StartHour: 1, EndHour: 6}
	if !w.Contains(1) || !w.Contains(5) {
		t.Error("expected hours 1 and 5 inside same-day window")
	}
	if w.Contains(6) || w.Contains(23) {
		t.Error("expected hours 6 and 23 outside same-day window")
	}
}

func TestWindowValidate(t *testing.T) {
	if err := DefaultWindow().Validate(); err != nil {
		t.Errorf("default window invalid: %v", err)
	}
	if err := (Window{StartHour: 24, EndHour: 5}).Validate(); err == nil {
		t.Error("expected error for start hour 24")
	}
	if err := (Window{StartHour: 18, EndHour: -1}).Validate(); err == nil {
		t.Error("expected error for end hour -1")
	}
}

func TestParseOverride(t *testing.T) {
	tests := map[string]constants.OverrideMode{
		"day":    constants.OverrideDay,
		" Night": constants.OverrideNight,
		"auto":   constants.OverrideAuto,
		"":       constants.OverrideAuto,
		"dusk":   constants.OverrideAuto,
	}
	for in, want := range tests {
		if got := ParseOverride(in); got != want {
			t.Errorf("ParseOverride(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMoonPhase(t *testing.T) {
	if got := MoonPhase(newMoonRef); got != "🌑" {
		t.Errorf("MoonPhase(reference new moon) = %q", got)
	}
	full := newMoonRef.Add(time.Duration(synodicMonth / 2 * 24 * float64(time.Hour)))
	if got := MoonPhase(full); got != "🌕" {
		t.Errorf("MoonPhase(half cycle) = %q", got)
	}
}
