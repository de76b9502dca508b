package models

import (
	"encoding/json"
	"fmt"
)

type Keystone struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Critical bool   `json:"critical,omitempty"`
	Streak   int    `json:"streak,omitempty"`
}

type Habit struct {
	Name   string `json:"name"`
	Done   bool   `json:"done"`
	Streak int    `json:"streak,omitempty"`
}

type HabitTier struct {
	Name   string  `json:"name"`
	Habits []Habit `json:"habits"`
}

type Habits struct {
	Total         int         `json:"total"`
	Completed     int         `json:"completed"`
	CompletionPct int         `json:"completion_pct"`
	Tiers         []HabitTier `json:"tiers"`
}

// All flattens the tiers in order.
func (h *Habits) All() []Habit {
	if h == nil {
		return nil
	}
	var out []Habit
	for _, t := range h.Tiers {
		out = append(out, t.Habits...)
	}
	return out
}

type Weather struct {
	Temp        *float64 `json:"temp,omitempty"`
	FeelsLike   *float64 `json:"feels_like,omitempty"`
	High        *float64 `json:"high,omitempty"`
	Low         *float64 `json:"low,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Description string   `json:"description,omitempty"`
	IconChar    string   `json:"icon_char,omitempty"`
}

type CalendarEvent struct {
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	AllDay   bool   `json:"all_day,omitempty"`
	Location string `json:"location,omitempty"`
	Calendar string `json:"calendar,omitempty"`
}

type TomorrowFocus struct {
	Task     string `json:"task"`
	Action   string `json:"action"`
	OneThing string `json:"one_thing"`
	File     string `json:"file,omitempty"`
}

type TaskSummary struct {
	P1Count   int    `json:"p1_count"`
	P2Count   int    `json:"p2_count"`
	QuickWins int    `json:"quick_wins"`
	TopP1     string `json:"top_p1,omitempty"`
}

type Reminder struct {
	Title string `json:"title"`
	Due   string `json:"due,omitempty"`
}

type Reminders struct {
	Count int        `json:"count"`
	Items []Reminder `json:"items"`
}

type DailyLog struct {
	Wins     []string `json:"wins"`
	Blockers []string `json:"blockers"`
}

type Pipeline struct {
	TotalActive   int            `json:"total_active"`
	ReadyToRecord int            `json:"ready_to_record"`
	ByChannel     map[string]int `json:"by_channel,omitempty"`
}

type RecordingReady struct {
	CC       int `json:"cc"`
	Pioneers int `json:"pioneers"`
	HA       int `json:"ha"`
	Zendo    int `json:"zendo"`
	Total    int `json:"total"`
}

type BacklogItem struct {
	Task     string `json:"task"`
	Priority string `json:"priority,omitempty"`
	Time     string `json:"time,omitempty"`
}

// Quote accepts either a bare JSON string or a {text, author} object.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

func (q *Quote) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*q = Quote{Text: text}
		return nil
	}
	type plain Quote
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("quote must be a string or {text, author}: %w", err)
	}
	*q = Quote(p)
	return nil
}
