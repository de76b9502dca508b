package storage

import (
	"sort"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/models"
)

// RetentionCutoff is the first day kept in the keystone log when recording
// on day. Unparseable days disable pruning.
func RetentionCutoff(day string) (string, bool) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return "", false
	}
	return t.AddDate(0, 0, -constants.KeystoneHistoryDay).Format(constants.DateFormat), true
}

// ComputeStreaks folds a keystone log into per-keystone streaks. A run is
// a sequence of consecutive calendar days marked done. The current streak
// is the run ending on the latest logged day, or on the day before it when
// the latest day is not done yet.
func ComputeStreaks(entries []KeystoneEntry) []models.KeystoneStreak {
	byKey := make(map[string][]KeystoneEntry)
	var keys []string
	for _, e := range entries {
		if _, ok := byKey[e.Key]; !ok {
			keys = append(keys, e.Key)
		}
		byKey[e.Key] = append(byKey[e.Key], e)
	}
	sort.Strings(keys)

	out := make([]models.KeystoneStreak, 0, len(keys))
	for _, key := range keys {
		log := byKey[key]
		sort.Slice(log, func(i, j int) bool { return log[i].Day < log[j].Day })

		s := models.KeystoneStreak{Key: key, Name: log[len(log)-1].Name}
		run := 0
		var prev time.Time
		for _, e := range log {
			day, err := time.Parse(constants.DateFormat, e.Day)
			if err != nil {
				continue
			}
			if !e.Done {
				run = 0
				prev = day
				continue
			}
			if !prev.IsZero() && day.Sub(prev) == 24*time.Hour && run > 0 {
				run++
			} else {
				run = 1
			}
			prev = day
			s.LastDone = e.Day
			if run > s.Best {
				s.Best = run
			}
		}

		latest := log[len(log)-1]
		switch {
		case latest.Done:
			s.Current = run
		case s.LastDone != "" && isDayBefore(s.LastDone, latest.Day):
			s.Current = trailingRun(log[:len(log)-1])
		}
		out = append(out, s)
	}
	return out
}

func isDayBefore(a, b string) bool {
	ta, err1 := time.Parse(constants.DateFormat, a)
	tb, err2 := time.Parse(constants.DateFormat, b)
	return err1 == nil && err2 == nil && tb.Sub(ta) == 24*time.Hour
}

func trailingRun(log []KeystoneEntry) int {
	run := 0
	var next time.Time
	for i := len(log) - 1; i >= 0; i-- {
		e := log[i]
		day, err := time.Parse(constants.DateFormat, e.Day)
		if err != nil || !e.Done {
			break
		}
		if !next.IsZero() && next.Sub(day) != 24*time.Hour {
			break
		}
		run++
		next = day
	}
	return run
}
