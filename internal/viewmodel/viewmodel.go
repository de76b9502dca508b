// Package viewmodel projects a resolved snapshot into the flat structures
// the renderers draw. Everything here is a pure function of its input.
package viewmodel

import (
	"time"

	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/dayphase"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/timemap"
	"github.com/julianstephens/focusboard/internal/utils"
)

// Options are the config values the projections read.
type Options struct {
	Features         config.Features
	OfflineThreshold time.Duration
	HabitBlocks      map[string][]string
	Counters         []config.Counter
}

// OptionsFromConfig extracts projection options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Features:         cfg.Features,
		OfflineThreshold: cfg.OfflineThreshold,
		HabitBlocks:      cfg.HabitBlocks,
		Counters:         cfg.Counters,
	}
}

// Input is one render pass worth of resolved state.
type Input struct {
	Snapshot   *models.Snapshot
	Now        time.Time
	Mapping    timemap.Mapping
	Result     dayphase.Result
	Options    Options
	Quotes     []models.Quote
	Streaks    map[string]int
	LastSync   time.Time
	Transition bool
	Warnings   []string
}

// Dashboard is the complete view model for one render pass.
type Dashboard struct {
	Clock     string `json:"clock"`
	DateLabel string `json:"date_label"`
	Phase     string `json:"phase"`
	Night     bool   `json:"night"`

	Hero       *Hero           `json:"hero,omitempty"`
	Complete   *CompleteScreen `json:"complete,omitempty"`
	Waiting    *WaitingScreen  `json:"waiting,omitempty"`
	NightView  *NightScreen    `json:"night_view,omitempty"`
	Transition bool            `json:"transition,omitempty"`

	Schedule   []BlockRow `json:"schedule"`
	MarkerAt   int        `json:"marker_at"`
	Behind     bool       `json:"behind"`
	BehindBy   int        `json:"behind_by,omitempty"`
	BehindText string     `json:"behind_text,omitempty"`
	Progress   int        `json:"progress"`

	Sync           SyncStatus          `json:"sync"`
	Keystones      []KeystoneView      `json:"keystones,omitempty"`
	Habits         *HabitsView         `json:"habits,omitempty"`
	Weather        *WeatherView        `json:"weather,omitempty"`
	Calendar       []CalendarGroup     `json:"calendar,omitempty"`
	DoneToday      *ListView           `json:"done_today,omitempty"`
	Reminders      *ListView           `json:"reminders,omitempty"`
	Tasks          *models.TaskSummary `json:"tasks,omitempty"`
	DailyLog       *models.DailyLog    `json:"daily_log,omitempty"`
	Pipeline       *models.Pipeline    `json:"pipeline,omitempty"`
	RecordingReady []BrandCount        `json:"recording_ready,omitempty"`
	Backlog        *models.BacklogItem `json:"backlog,omitempty"`
	Counters       []CounterView       `json:"counters,omitempty"`
	Quote          *models.Quote       `json:"quote,omitempty"`
	Warnings       []string            `json:"warnings,omitempty"`
}

// Build assembles the dashboard for one pass. A nil snapshot yields the
// pre-first-sync screen.
func Build(in Input) Dashboard {
	d := Dashboard{
		Clock:     utils.FormatClock(in.Now),
		DateLabel: utils.FormatLongDate(in.Now),
		Phase:     in.Result.Phase.String(),
		Night:     in.Result.Phase == dayphase.NightMode,
		MarkerAt:  -1,
		Sync:      BuildSync(in.Snapshot, in.LastSync, in.Now, in.Options.OfflineThreshold),
		Counters:  BuildCounters(in.Options.Counters, in.Now),
		Warnings:  in.Warnings,
	}

	snap := in.Snapshot
	if snap == nil {
		d.Waiting = &WaitingScreen{Title: "Waiting", Subtitle: "Waiting for first sync..."}
		return d
	}
	if snap.Date != "" {
		d.DateLabel = utils.FormatShortDate(snap.Date)
	} else if snap.DayLabel != "" {
		d.DateLabel = snap.DayLabel
	}

	date := snap.Date
	if date == "" {
		date = in.Now.Format(constants.DateFormat)
	}
	quote := DailyQuote(in.Quotes, date)
	if quote == nil && snap.Quote != nil && snap.Quote.Text != "" {
		quote = snap.Quote
	}
	d.Quote = quote

	switch in.Result.Phase {
	case dayphase.NightMode:
		d.NightView = BuildNight(in.Result, in.Now, in.Options.Features.NightCountdown)
		return d
	case dayphase.DayComplete:
		d.Complete = BuildComplete(snap.TomorrowFocus, quote)
	case dayphase.Waiting:
		d.Waiting = &WaitingScreen{Title: "Waiting", Subtitle: "Schedule not generated yet"}
	default:
		d.Hero = BuildHero(snap, in.Result)
		d.Transition = in.Transition && in.Options.Features.TransitionFade
		d.Behind, d.BehindBy, d.BehindText = in.Result.Behind, in.Result.BehindBy, in.Result.BehindText
	}

	d.Schedule, d.MarkerAt = BuildSchedule(snap, in.Mapping, in.Result, in.Options)
	d.Progress = Progress(snap.Blocks)
	d.Keystones = BuildKeystones(snap.Keystones, in.Streaks)
	d.Habits = BuildHabits(snap.Habits)
	d.Weather = BuildWeather(snap.Weather)
	d.Calendar = BuildCalendar(snap.Calendar, in.Now)
	d.DoneToday = Tail(snap.DoneToday, maxDoneToday)
	if snap.Reminders != nil {
		d.Reminders = BuildReminders(snap.Reminders.Items)
	}
	d.Tasks = nonEmptyTasks(snap.Tasks)
	d.DailyLog = nonEmptyLog(snap.DailyLog)
	if snap.Pipeline != nil && snap.Pipeline.TotalActive > 0 {
		d.Pipeline = snap.Pipeline
	}
	d.RecordingReady = BuildRecordingReady(snap.RecordingReady)
	if snap.BacklogNext != nil && snap.BacklogNext.Task != "" {
		d.Backlog = snap.BacklogNext
	}
	return d
}

// WaitingScreen replaces the hero before a schedule exists.
type WaitingScreen struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// CompleteScreen replaces the hero once every block is done.
type CompleteScreen struct {
	Title    string        `json:"title"`
	Tomorrow *Tomorrow     `json:"tomorrow,omitempty"`
	Quote    *models.Quote `json:"quote,omitempty"`
}

type Tomorrow struct {
	Task     string `json:"task"`
	Action   string `json:"action,omitempty"`
	OneThing string `json:"one_thing,omitempty"`
}

func BuildComplete(tf *models.TomorrowFocus, quote *models.Quote) *CompleteScreen {
	c := &CompleteScreen{Title: "Day Complete"}
	if tf != nil && tf.Task != "" {
		c.Tomorrow = &Tomorrow{Task: tf.Task, Action: tf.Action, OneThing: tf.OneThing}
		return c
	}
	c.Quote = quote
	return c
}

// NightScreen is the dimmed overnight display.
type NightScreen struct {
	Clock     string `json:"clock"`
	Date      string `json:"date"`
	Moon      string `json:"moon"`
	Countdown string `json:"countdown,omitempty"`
	Label     string `json:"label,omitempty"`
}
