package models

import "time"

// ScheduleBlock is one time-labelled entry of the day's plan. Time is "H:MM"
// or "HH:MM" and may be in either 12- or 24-hour form.
type ScheduleBlock struct {
	Time      string   `json:"time"`
	Block     string   `json:"block"`
	Task      string   `json:"task"`
	Type      string   `json:"type,omitempty"`
	Color     string   `json:"color,omitempty"`
	Icon      string   `json:"icon,omitempty"`
	Label     string   `json:"label,omitempty"`
	File      string   `json:"file,omitempty"`
	Source    string   `json:"source,omitempty"`
	Details   []string `json:"details,omitempty"`
	Done      bool     `json:"done"`
	IsCurrent bool     `json:"is_current"`
	Required  bool     `json:"required,omitempty"`
}

// Name returns the block name, falling back to the task.
func (b ScheduleBlock) Name() string {
	if b.Block != "" {
		return b.Block
	}
	return b.Task
}

// NowInfo is the producer's view of the checked-current block.
type NowInfo struct {
	Block    string   `json:"block"`
	Task     string   `json:"task"`
	File     string   `json:"file,omitempty"`
	Source   string   `json:"source,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Label    string   `json:"label,omitempty"`
	Color    string   `json:"color,omitempty"`
	Type     string   `json:"type,omitempty"`
	Do       string   `json:"do,omitempty"`
	FromRef  string   `json:"from_ref,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// Meta carries the producer's day flags.
type Meta struct {
	SyncVersion int  `json:"sync_version,omitempty"`
	AllDone     bool `json:"all_done"`
	NoSchedule  bool `json:"no_schedule"`
}

// Snapshot is the state document published by the external scheduler.
// Every section is optional; absent sections decode to zero values.
type Snapshot struct {
	GeneratedAt    string          `json:"generated_at"`
	Date           string          `json:"date"`
	DayLabel       string          `json:"day_label"`
	Now            NowInfo         `json:"now"`
	Blocks         []ScheduleBlock `json:"blocks"`
	Meta           Meta            `json:"meta"`
	Keystones      []Keystone      `json:"keystones,omitempty"`
	Habits         *Habits         `json:"habits,omitempty"`
	Weather        *Weather        `json:"weather,omitempty"`
	Calendar       []CalendarEvent `json:"calendar,omitempty"`
	DoneToday      []string        `json:"done_today,omitempty"`
	TomorrowFocus  *TomorrowFocus  `json:"tomorrow_focus,omitempty"`
	Tasks          *TaskSummary    `json:"tasks,omitempty"`
	Reminders      *Reminders      `json:"reminders,omitempty"`
	DailyLog       *DailyLog       `json:"daily_log,omitempty"`
	Pipeline       *Pipeline       `json:"pipeline,omitempty"`
	RecordingReady *RecordingReady `json:"recording_ready,omitempty"`
	BacklogNext    *BacklogItem    `json:"backlog_next,omitempty"`
	Quote          *Quote          `json:"quote,omitempty"`
}

// CurrentBlock returns the first block flagged is_current.
func (s *Snapshot) CurrentBlock() (ScheduleBlock, bool) {
	if s == nil {
		return ScheduleBlock{}, false
	}
	for _, b := range s.Blocks {
		if b.IsCurrent {
			return b, true
		}
	}
	return ScheduleBlock{}, false
}

// Override is the manual day/night display override document.
type Override struct {
	Mode string `json:"mode"`
}

// SnapshotRecord is a persisted snapshot with its receipt metadata.
type SnapshotRecord struct {
	ID         string
	Date       string
	ReceivedAt time.Time
	Phase      string
	Snapshot   Snapshot
}

// KeystoneStreak is the locally tracked run of days a keystone was done.
type KeystoneStreak struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Current  int    `json:"current"`
	Best     int    `json:"best"`
	LastDone string `json:"last_done,omitempty"`
}
