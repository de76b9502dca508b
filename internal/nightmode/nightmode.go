// Package nightmode decides when the dashboard switches to its dimmed night
// screen and tracks the enter/exit lifecycle of that screen.
package nightmode

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
)

// Window is a local wall-clock hour range. When StartHour > EndHour the
// window wraps past midnight.
type Window struct {
	StartHour int `koanf:"start_hour" json:"start_hour"`
	EndHour   int `koanf:"end_hour" json:"end_hour"`
}

func DefaultWindow() Window {
	return Window{StartHour: constants.DefaultNightStartHour, EndHour: constants.DefaultNightEndHour}
}

func (w Window) Validate() error {
	if w.StartHour < 0 || w.StartHour > 23 {
		return fmt.Errorf("night start hour %d out of range (0-23)", w.StartHour)
	}
	if w.EndHour < 0 || w.EndHour > 23 {
		return fmt.Errorf("night end hour %d out of range (0-23)", w.EndHour)
	}
	return nil
}

// Contains reports whether hour falls inside the window.
func (w Window) Contains(hour int) bool {
	if w.StartHour > w.EndHour {
		return hour >= w.StartHour || hour < w.EndHour
	}
	return hour >= w.StartHour && hour < w.EndHour
}

// ParseOverride normalises an override mode. Anything unrecognised is auto.
func ParseOverride(mode string) constants.OverrideMode {
	switch constants.OverrideMode(strings.ToLower(strings.TrimSpace(mode))) {
	case constants.OverrideDay:
		return constants.OverrideDay
	case constants.OverrideNight:
		return constants.OverrideNight
	default:
		return constants.OverrideAuto
	}
}

// IsNight applies forced, then override, then the hour window.
func IsNight(now time.Time, w Window, mode constants.OverrideMode, forced bool) bool {
	if forced {
		return true
	}
	switch mode {
	case constants.OverrideDay:
		return false
	case constants.OverrideNight:
		return true
	}
	return w.Contains(now.Hour())
}

var moonPhases = []string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

// reference new moon, 2000-01-06 18:14 UTC
var newMoonRef = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

const synodicMonth = 29.53058770576

// MoonPhase returns the glyph for the moon phase at t.
func MoonPhase(t time.Time) string {
	days := t.Sub(newMoonRef).Hours() / 24
	phase := math.Mod(math.Mod(days, synodicMonth)+synodicMonth, synodicMonth)
	idx := int(math.Round(phase/synodicMonth*8)) % 8
	return moonPhases[idx]
}
