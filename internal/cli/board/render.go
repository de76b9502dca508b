package board

import (
	"fmt"
	"io"
	"strings"

	"github.com/julianstephens/focusboard/internal/viewmodel"
)

const markerLine = "   ── NOW ──"

// writeSummary prints the header, focus and sync lines shared by status
// and view.
func writeSummary(w io.Writer, d viewmodel.Dashboard) {
	fmt.Fprintf(w, "%s  %s  [%s]\n", d.Clock, d.DateLabel, d.Phase)

	switch {
	case d.NightView != nil:
		fmt.Fprintf(w, "Night %s\n", d.NightView.Moon)
		if d.NightView.Countdown != "" {
			fmt.Fprintf(w, "%s %s\n", d.NightView.Label, d.NightView.Countdown)
		}
	case d.Complete != nil:
		fmt.Fprintln(w, d.Complete.Title)
		if t := d.Complete.Tomorrow; t != nil {
			fmt.Fprintf(w, "Tomorrow: %s\n", t.Task)
		}
	case d.Waiting != nil:
		fmt.Fprintf(w, "%s: %s\n", d.Waiting.Title, d.Waiting.Subtitle)
	case d.Hero != nil:
		line := "Now: " + d.Hero.Name
		if d.Hero.Task != "" {
			line += " (" + d.Hero.Task + ")"
		}
		fmt.Fprintln(w, line)
	}

	if d.Behind {
		fmt.Fprintf(w, "Behind: %s\n", d.BehindText)
	}
	if d.MarkerAt >= 0 {
		fmt.Fprintf(w, "Marker: before row %d\n", d.MarkerAt+1)
	}
	if len(d.Schedule) > 0 {
		fmt.Fprintf(w, "Progress: %d%%\n", d.Progress)
	}
	fmt.Fprintf(w, "Sync: %s\n", d.Sync.Text)
	for _, warn := range d.Warnings {
		fmt.Fprintf(w, "⚠ %s\n", warn)
	}
}

// writeSchedule prints the block list with the NOW marker in place.
func writeSchedule(w io.Writer, d viewmodel.Dashboard) {
	if len(d.Schedule) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Schedule:")
	for i, row := range d.Schedule {
		if i == d.MarkerAt {
			fmt.Fprintln(w, markerLine)
		}
		glyph := row.Glyph
		if glyph == "" {
			glyph = " "
		}
		name := row.Name
		if row.Task != "" {
			name += ": " + row.Task
		}
		fmt.Fprintf(w, " %s %8s  %-40s %s\n", glyph, row.Time, name, row.Status)
	}
	if d.MarkerAt == len(d.Schedule) {
		fmt.Fprintln(w, markerLine)
	}
}

// writeWidgets prints the sidebar widgets that have content.
func writeWidgets(w io.Writer, d viewmodel.Dashboard) {
	var lines []string
	if len(d.Keystones) > 0 {
		parts := make([]string, len(d.Keystones))
		for i, k := range d.Keystones {
			parts[i] = k.Symbol + " " + k.Name
			if k.Streak != "" {
				parts[i] += " " + k.Streak
			}
		}
		lines = append(lines, "Keystones: "+strings.Join(parts, "  "))
	}
	if d.Habits != nil {
		lines = append(lines, fmt.Sprintf("Habits: %s (%d%%)", d.Habits.Header, d.Habits.Percent))
	}
	if d.Weather != nil {
		lines = append(lines, fmt.Sprintf("Weather: %s %s", d.Weather.Icon, d.Weather.Temp))
	}
	if d.DoneToday != nil && d.DoneToday.Count > 0 {
		lines = append(lines, fmt.Sprintf("Done today: %d", d.DoneToday.Count))
	}
	if d.Reminders != nil && d.Reminders.Count > 0 {
		lines = append(lines, fmt.Sprintf("Reminders: %d", d.Reminders.Count))
	}
	for _, c := range d.Counters {
		lines = append(lines, fmt.Sprintf("%s: %s", c.Label, c.Days))
	}
	if d.Quote != nil {
		q := "\"" + d.Quote.Text + "\""
		if d.Quote.Author != "" {
			q += " - " + d.Quote.Author
		}
		lines = append(lines, q)
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
