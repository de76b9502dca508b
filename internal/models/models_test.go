package models

import (
	"encoding/json"
	"testing"
)

func TestQuoteUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Quote
		wantErr bool
	}{
		{name: "bare string", input: `"Stay the course."`, want: Quote{Text: "Stay the course."}},
		{name: "object", input: `{"text": "Begin.", "author": "Seneca"}`, want: Quote{Text: "Begin.", Author: "Seneca"}},
		{name: "object without author", input: `{"text": "Ship it"}`, want: Quote{Text: "Ship it"}},
		{name: "number", input: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quote
			err := json.Unmarshal([]byte(tt.input), &q)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && q != tt.want {
				t.Errorf("Unmarshal() = %+v, want %+v", q, tt.want)
			}
		})
	}
}

func TestSnapshotCurrentBlock(t *testing.T) {
	var nilSnap *Snapshot
	if _, ok := nilSnap.CurrentBlock(); ok {
		t.Error("nil snapshot should have no current block")
	}

	s := &Snapshot{Blocks: []ScheduleBlock{
		{Time: "6:30", Block: "Foundation", Done: true},
		{Time: "9:00", Block: "DEV-1", IsCurrent: true},
		{Time: "11:00", Block: "EXEC-1", IsCurrent: true},
	}}
	b, ok := s.CurrentBlock()
	if !ok || b.Block != "DEV-1" {
		t.Errorf("CurrentBlock() = (%+v, %v), want DEV-1", b, ok)
	}
}

func TestBlockName(t *testing.T) {
	if got := (ScheduleBlock{Block: "DEV-1", Task: "Parser"}).Name(); got != "DEV-1" {
		t.Errorf("Name() = %q", got)
	}
	if got := (ScheduleBlock{Task: "Parser"}).Name(); got != "Parser" {
		t.Errorf("Name() fallback = %q", got)
	}
}

func TestHabitsAll(t *testing.T) {
	var h *Habits
	if h.All() != nil {
		t.Error("nil habits should flatten to nil")
	}
	h = &Habits{Tiers: []HabitTier{
		{Name: "Morning", Habits: []Habit{{Name: "AM Skool"}, {Name: "AM Twitter", Done: true}}},
		{Name: "Night", Habits: []Habit{{Name: "LAB-1: Research Block"}}},
	}}
	if got := len(h.All()); got != 3 {
		t.Errorf("All() returned %d habits, want 3", got)
	}
}
