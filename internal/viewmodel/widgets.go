package viewmodel

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/dayphase"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/nightmode"
	"github.com/julianstephens/focusboard/internal/utils"
)

const (
	maxDoneToday = constants.MaxDoneToday
	maxReminders = constants.MaxReminders
)

// KeystoneView is one keystone in the streak bar.
type KeystoneView struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Done     bool   `json:"done"`
	Critical bool   `json:"critical,omitempty"`
	Streak   string `json:"streak,omitempty"`
}

// BuildKeystones renders the keystone bar. A streak of zero in the snapshot
// falls back to the locally recorded streak keyed by id, then name.
func BuildKeystones(keystones []models.Keystone, streaks map[string]int) []KeystoneView {
	if len(keystones) == 0 {
		return nil
	}
	out := make([]KeystoneView, len(keystones))
	for i, ks := range keystones {
		streak := ks.Streak
		if streak == 0 && streaks != nil {
			if n, ok := streaks[ks.ID]; ok && ks.ID != "" {
				streak = n
			} else {
				streak = streaks[ks.Name]
			}
		}
		v := KeystoneView{Name: ks.Name, Symbol: "◇", Done: ks.Done, Critical: ks.Critical}
		if ks.Done {
			v.Symbol = "◆"
		}
		if streak > 0 {
			v.Streak = fmt.Sprintf("%dd", streak)
		}
		out[i] = v
	}
	return out
}

// HabitRow is a habit in the sidebar.
type HabitRow struct {
	Name    string  `json:"name"`
	Done    bool    `json:"done"`
	Streak  int     `json:"streak,omitempty"`
	Opacity float64 `json:"opacity"`
}

// HabitsView is the habits sidebar.
type HabitsView struct {
	Header  string     `json:"header"`
	Percent int        `json:"percent"`
	Rows    []HabitRow `json:"rows"`
}

// FadeOpacity returns the opacity of the i-th sidebar row. Zero means the
// row is not shown.
func FadeOpacity(i int) float64 {
	switch {
	case i < constants.HabitFullOpacity:
		return 1.0
	case i == constants.HabitFullOpacity:
		return 0.75
	case i == constants.HabitFullOpacity+1:
		return 0.5
	case i == constants.HabitFullOpacity+2:
		return 0.25
	default:
		return 0
	}
}

// BuildHabits lists incomplete habits first, then completed ones, fading the
// tail of the list.
func BuildHabits(h *models.Habits) *HabitsView {
	if h == nil || h.Total == 0 {
		return nil
	}
	var pending, done []models.Habit
	for _, hab := range h.All() {
		if hab.Done {
			done = append(done, hab)
		} else {
			pending = append(pending, hab)
		}
	}

	v := &HabitsView{
		Header:  fmt.Sprintf("%d/%d", h.Completed, h.Total),
		Percent: h.CompletionPct,
	}
	for i, hab := range append(pending, done...) {
		op := FadeOpacity(i)
		if op <= 0 {
			break
		}
		v.Rows = append(v.Rows, HabitRow{Name: hab.Name, Done: hab.Done, Streak: hab.Streak, Opacity: op})
	}
	return v
}

// WeatherView is the weather widget.
type WeatherView struct {
	Icon        string   `json:"icon"`
	Temp        string   `json:"temp"`
	Details     []string `json:"details,omitempty"`
	Description string   `json:"description,omitempty"`
}

// BuildWeather returns nil when no temperature was reported.
func BuildWeather(w *models.Weather) *WeatherView {
	if w == nil || w.Temp == nil {
		return nil
	}
	v := &WeatherView{
		Icon:        w.IconChar,
		Temp:        degrees(*w.Temp),
		Description: w.Description,
	}
	if v.Icon == "" {
		v.Icon = "☀"
	}
	if w.FeelsLike != nil {
		v.Details = append(v.Details, "Feels "+degrees(*w.FeelsLike))
	}
	if w.High != nil && w.Low != nil {
		v.Details = append(v.Details, "H:"+degrees(*w.High)+" L:"+degrees(*w.Low))
	}
	if w.Humidity != nil {
		v.Details = append(v.Details, number(*w.Humidity)+"% humidity")
	}
	return v
}

func number(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func degrees(f float64) string { return number(f) + "°" }

// CalendarGroup is a run of events under one day heading.
type CalendarGroup struct {
	Label  string      `json:"label"`
	Events []EventView `json:"events"`
}

type EventView struct {
	Title    string `json:"title"`
	Time     string `json:"time"`
	AllDay   bool   `json:"all_day,omitempty"`
	Location string `json:"location,omitempty"`
}

// BuildCalendar groups events by day in input order. Consecutive events on
// the same day share a heading. An empty list yields a single placeholder
// group.
func BuildCalendar(events []models.CalendarEvent, now time.Time) []CalendarGroup {
	if len(events) == 0 {
		return []CalendarGroup{{Label: "No upcoming events"}}
	}
	loc := now.Location()
	today := now.Format(constants.DateFormat)
	tomorrow := now.AddDate(0, 0, 1).Format(constants.DateFormat)

	var groups []CalendarGroup
	for _, ev := range events {
		label := dayLabel(ev.Start, today, tomorrow, loc)
		if len(groups) == 0 || groups[len(groups)-1].Label != label {
			groups = append(groups, CalendarGroup{Label: label})
		}
		g := &groups[len(groups)-1]
		g.Events = append(g.Events, EventView{
			Title:    ev.Title,
			Time:     eventTime(ev, loc),
			AllDay:   ev.AllDay,
			Location: ev.Location,
		})
	}
	return groups
}

func dayLabel(start, today, tomorrow string, loc *time.Location) string {
	date := start
	if len(date) > 10 {
		date = date[:10]
	}
	switch date {
	case today:
		return "TODAY"
	case tomorrow:
		return "TOMORROW"
	}
	t, err := utils.ParseTimestamp(start, loc)
	if err != nil {
		return date
	}
	return t.In(loc).Format("Mon, Jan 2")
}

func eventTime(ev models.CalendarEvent, loc *time.Location) string {
	if ev.AllDay {
		return "All day"
	}
	return clockOf(ev.Start, loc) + " – " + clockOf(ev.End, loc)
}

func clockOf(s string, loc *time.Location) string {
	if s == "" {
		return ""
	}
	t, err := utils.ParseTimestamp(s, loc)
	if err != nil {
		return s
	}
	return utils.FormatClock(t.In(loc))
}

// ListView is a capped list with an overflow count.
type ListView struct {
	Count int      `json:"count"`
	Items []string `json:"items"`
	More  string   `json:"more,omitempty"`
}

// Tail keeps the last max items.
func Tail(items []string, max int) *ListView {
	if len(items) == 0 {
		return nil
	}
	v := &ListView{Count: len(items), Items: items}
	if len(items) > max {
		v.Items = items[len(items)-max:]
		v.More = fmt.Sprintf("+%d more", len(items)-max)
	}
	return v
}

// Head keeps the first max items.
func Head(items []string, max int) *ListView {
	if len(items) == 0 {
		return nil
	}
	v := &ListView{Count: len(items), Items: items}
	if len(items) > max {
		v.Items = items[:max]
		v.More = fmt.Sprintf("+%d more", len(items)-max)
	}
	return v
}

// BuildReminders lists the first reminders, with their due text appended.
func BuildReminders(items []models.Reminder) *ListView {
	lines := make([]string, 0, len(items))
	for _, r := range items {
		line := r.Title
		if r.Due != "" {
			line += " · " + r.Due
		}
		lines = append(lines, line)
	}
	return Head(lines, maxReminders)
}

// BrandCount is a per-brand recording count.
type BrandCount struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

var brandOrder = []struct{ key, label, color string }{
	{"cc", "CC", "#3498db"},
	{"pioneers", "P", "#e84393"},
	{"ha", "HA", "#f39c12"},
	{"zendo", "Z", "#00e676"},
}

// BrandCounts returns the non-zero channel counts in display order.
func BrandCounts(counts map[string]int) []BrandCount {
	var out []BrandCount
	for _, b := range brandOrder {
		if n := counts[b.key]; n > 0 {
			out = append(out, BrandCount{Label: b.label, Color: b.color, Count: n})
		}
	}
	return out
}

// BuildRecordingReady returns nil when nothing is ready. The total is the
// final entry.
func BuildRecordingReady(r *models.RecordingReady) []BrandCount {
	if r == nil || r.Total == 0 {
		return nil
	}
	out := BrandCounts(map[string]int{"cc": r.CC, "pioneers": r.Pioneers, "ha": r.HA, "zendo": r.Zendo})
	return append(out, BrandCount{Label: "TOTAL", Count: r.Total})
}

func nonEmptyTasks(t *models.TaskSummary) *models.TaskSummary {
	if t == nil || (t.P1Count == 0 && t.P2Count == 0 && t.QuickWins == 0) {
		return nil
	}
	return t
}

func nonEmptyLog(l *models.DailyLog) *models.DailyLog {
	if l == nil || (len(l.Wins) == 0 && len(l.Blockers) == 0) {
		return nil
	}
	return l
}

// CounterView is one "days since" counter.
type CounterView struct {
	Label string `json:"label"`
	Days  string `json:"days"`
}

// BuildCounters renders each counter as whole days since its date. Counters
// with an unparseable or empty date are skipped.
func BuildCounters(counters []config.Counter, now time.Time) []CounterView {
	var out []CounterView
	for _, c := range counters {
		start, err := utils.ParseDateInLocation(c.Since, now.Location())
		if err != nil {
			continue
		}
		out = append(out, CounterView{Label: c.Label, Days: humanize.Comma(int64(utils.DaysSince(start, now)))})
	}
	return out
}

// DailyQuote picks a quote that stays fixed for a given date.
func DailyQuote(quotes []models.Quote, date string) *models.Quote {
	if len(quotes) == 0 {
		return nil
	}
	var hash int32
	for _, c := range utf16.Encode([]rune(date)) {
		hash = (hash << 5) - hash + int32(c)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	q := quotes[h%int64(len(quotes))]
	return &q
}

// BuildNight assembles the overnight screen.
func BuildNight(r dayphase.Result, now time.Time, countdown bool) *NightScreen {
	n := &NightScreen{
		Clock: utils.FormatClock(now),
		Date:  utils.FormatLongDate(now),
		Moon:  nightmode.MoonPhase(now),
	}
	if countdown && r.HasCount {
		n.Countdown = r.Countdown.Text
		n.Label = r.Countdown.Label()
	}
	return n
}
