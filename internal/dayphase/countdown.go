package dayphase

import (
	"fmt"
	"time"

	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/timemap"
)

// Countdown is the time remaining until the first block of the day.
type Countdown struct {
	Target    time.Time
	Delta     time.Duration
	BlockName string
	Text      string
}

// Label is the line shown above the countdown value.
func (c Countdown) Label() string {
	return c.BlockName + " in"
}

// NightCountdown computes the wait until the next occurrence of the first
// block's start. The first label is read at face value, so "5:30" means
// 05:30 local time.
func NightCountdown(blocks []models.ScheduleBlock, now time.Time) (Countdown, bool) {
	if len(blocks) == 0 {
		return Countdown{}, false
	}
	first := blocks[0]
	c, err := timemap.ParseClock(first.Time)
	if err != nil {
		return Countdown{}, false
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}

	name := first.Block
	if name == "" {
		name = "First Block"
	}
	delta := target.Sub(now)
	return Countdown{
		Target:    target,
		Delta:     delta,
		BlockName: name,
		Text:      FormatCountdown(delta),
	}, true
}

// FormatCountdown renders d as "Xh Ym", or "Ym" under an hour.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Minute)
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
