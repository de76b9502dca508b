package viewmodel

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/dayphase"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/timemap"
)

func testSnapshot() *models.Snapshot {
	times := []string{"6:30", "9:00", "12:00", "2:00", "5:30"}
	snap := &models.Snapshot{
		GeneratedAt: "2025-01-15T14:58:00-05:00",
		Date:        "2025-01-15",
		Now: models.NowInfo{
			Block: "Deep Work",
			Task:  "Write chapter",
			Label: "DEEP WORK",
			Do:    "Draft section 2",
			Color: "#ff0000",
		},
	}
	for i, tm := range times {
		snap.Blocks = append(snap.Blocks, models.ScheduleBlock{Time: tm, Block: "Block " + tm, Task: "task"})
		if i == 0 {
			snap.Blocks[i].Done = true
		}
	}
	snap.Blocks[1].IsCurrent = true
	snap.Blocks[1].Required = true
	return snap
}

func resolve(snap *models.Snapshot, now time.Time, night bool) (timemap.Mapping, dayphase.Result) {
	m := timemap.Map(snap.Blocks, now)
	return m, dayphase.Resolve(dayphase.NewInput(snap, m, night, now))
}

func fullOptions() Options {
	return OptionsFromConfig(config.Default())
}

func TestBuildInProgress(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	now := time.Date(2025, 1, 15, 15, 0, 0, 0, loc)
	snap := testSnapshot()
	m, r := resolve(snap, now, false)

	d := Build(Input{Snapshot: snap, Now: now, Mapping: m, Result: r, Options: fullOptions(), Transition: true})

	if d.Phase != "in_progress" {
		t.Fatalf("Phase = %q, want in_progress", d.Phase)
	}
	if d.Hero == nil {
		t.Fatal("Hero is nil")
	}
	if d.Hero.Badge != keystoneBadge {
		t.Errorf("Badge = %q, want %q", d.Hero.Badge, keystoneBadge)
	}
	if d.Hero.Sublabel != "" {
		t.Errorf("Sublabel = %q, want empty (matches block name)", d.Hero.Sublabel)
	}
	if !d.Behind || d.BehindText != "2 blocks behind schedule" {
		t.Errorf("Behind = %v %q, want 2 blocks behind", d.Behind, d.BehindText)
	}
	if d.MarkerAt != 4 {
		t.Errorf("MarkerAt = %d, want 4", d.MarkerAt)
	}
	if d.Progress != 20 {
		t.Errorf("Progress = %d, want 20", d.Progress)
	}
	if !d.Transition {
		t.Error("Transition = false, want true")
	}
	if d.DateLabel != "Jan 15" {
		t.Errorf("DateLabel = %q, want Jan 15", d.DateLabel)
	}
	if !d.Sync.Online || d.Sync.Text != "Synced 2 min ago" {
		t.Errorf("Sync = %+v, want online 2 min", d.Sync)
	}

	var glyphs []string
	for _, row := range d.Schedule {
		glyphs = append(glyphs, row.Glyph)
	}
	if diff := cmp.Diff([]string{"✓", "▶", "○", "", ""}, glyphs); diff != "" {
		t.Errorf("glyphs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildClassicLayout(t *testing.T) {
	now := time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)
	snap := testSnapshot()
	m, r := resolve(snap, now, false)
	opts := fullOptions()
	opts.Features.HybridSchedule = false
	opts.Features.TransitionFade = false

	d := Build(Input{Snapshot: snap, Now: now, Mapping: m, Result: r, Options: opts, Transition: true})

	if d.MarkerAt != -1 {
		t.Errorf("MarkerAt = %d, want -1", d.MarkerAt)
	}
	if d.Schedule[2].State() != dayphase.Pending {
		t.Errorf("row 2 = %v, want pending", d.Schedule[2].State())
	}
	if d.Transition {
		t.Error("Transition = true with fade disabled")
	}
}

func TestBuildScreens(t *testing.T) {
	now := time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)

	t.Run("no snapshot", func(t *testing.T) {
		d := Build(Input{Now: now, Options: fullOptions(), Result: dayphase.Result{Phase: dayphase.Waiting}})
		if d.Waiting == nil || d.Waiting.Subtitle != "Waiting for first sync..." {
			t.Errorf("Waiting = %+v", d.Waiting)
		}
		if d.Sync.Text != "Waiting for first sync..." {
			t.Errorf("Sync.Text = %q", d.Sync.Text)
		}
	})

	t.Run("no schedule", func(t *testing.T) {
		snap := testSnapshot()
		snap.Meta.NoSchedule = true
		m, r := resolve(snap, now, false)
		d := Build(Input{Snapshot: snap, Now: now, Mapping: m, Result: r, Options: fullOptions()})
		if d.Waiting == nil || d.Waiting.Subtitle != "Schedule not generated yet" {
			t.Errorf("Waiting = %+v", d.Waiting)
		}
		if d.Hero != nil {
			t.Error("Hero should be nil while waiting")
		}
	})

	t.Run("day complete with tomorrow focus", func(t *testing.T) {
		snap := testSnapshot()
		snap.Meta.AllDone = true
		snap.TomorrowFocus = &models.TomorrowFocus{Task: "Ship it", OneThing: "Focus"}
		m, r := resolve(snap, now, false)
		d := Build(Input{Snapshot: snap, Now: now, Mapping: m, Result: r, Options: fullOptions()})
		want := &CompleteScreen{Title: "Day Complete", Tomorrow: &Tomorrow{Task: "Ship it", OneThing: "Focus"}}
		if diff := cmp.Diff(want, d.Complete); diff != "" {
			t.Errorf("Complete mismatch (-want +got):\n%s", diff)
		}
		if len(d.Schedule) != len(snap.Blocks) || d.MarkerAt != 4 {
			t.Errorf("schedule rows = %d, MarkerAt = %d, want %d rows and marker 4", len(d.Schedule), d.MarkerAt, len(snap.Blocks))
		}
	})

	t.Run("day complete falls back to quote", func(t *testing.T) {
		snap := testSnapshot()
		snap.Meta.AllDone = true
		m, r := resolve(snap, now, false)
		quotes := []models.Quote{{Text: "a"}, {Text: "b"}, {Text: "c"}}
		d := Build(Input{Snapshot: snap, Now: now, Mapping: m, Result: r, Options: fullOptions(), Quotes: quotes})
		if d.Complete == nil || d.Complete.Quote == nil || d.Complete.Quote.Text != "b" {
			t.Errorf("Complete = %+v, want quote b", d.Complete)
		}
	})

	t.Run("night", func(t *testing.T) {
		night := time.Date(2025, 1, 15, 22, 0, 0, 0, time.UTC)
		snap := testSnapshot()
		m, r := resolve(snap, night, true)
		d := Build(Input{Snapshot: snap, Now: night, Mapping: m, Result: r, Options: fullOptions()})
		if d.NightView == nil {
			t.Fatal("NightView is nil")
		}
		if d.NightView.Countdown != "8h 30m" || d.NightView.Label != "Block 6:30 in" {
			t.Errorf("NightView = %+v", d.NightView)
		}
		if d.Schedule != nil {
			t.Error("schedule should not render at night")
		}
	})
}

func TestHeroFields(t *testing.T) {
	tests := []struct {
		name string
		now  models.NowInfo
		want []Field
	}{
		{
			name: "new field names",
			now:  models.NowInfo{Do: "Edit", FromRef: "ticket-1", Duration: "45m"},
			want: []Field{{"DO", "Edit"}, {"FROM", "ticket-1"}, {"TIME", "45m"}},
		},
		{
			name: "legacy fallbacks",
			now:  models.NowInfo{File: "notes.md", Task: "Review", Source: "30m"},
			want: []Field{{"DO", "notes.md"}, {"FROM", "Review"}, {"TIME", "30m"}},
		},
		{
			name: "placeholders suppressed",
			now:  models.NowInfo{Do: "--", FromRef: "(fixed)", Duration: "--"},
			want: nil,
		},
		{
			name: "protected source suppressed",
			now:  models.NowInfo{Task: "(protected)"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, HeroFields(tt.now)); diff != "" {
				t.Errorf("HeroFields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSublabel(t *testing.T) {
	tests := []struct {
		now  models.NowInfo
		want string
	}{
		{models.NowInfo{Block: "Deep Work", Label: "deep work"}, ""},
		{models.NowInfo{Task: "Write", Label: "WRITE"}, ""},
		{models.NowInfo{Block: "Deep Work", Task: "Write", Label: "Session 2"}, "Session 2"},
		{models.NowInfo{Block: "Deep Work"}, ""},
	}
	for _, tt := range tests {
		if got := Sublabel(tt.now); got != tt.want {
			t.Errorf("Sublabel(%+v) = %q, want %q", tt.now, got, tt.want)
		}
	}
}

func TestBuildSync(t *testing.T) {
	now := time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		generated string
		want      SyncStatus
	}{
		{"just now", "2025-01-15T14:59:30Z", SyncStatus{Online: true, Text: "Synced just now"}},
		{"minutes ago", "2025-01-15T14:56:00Z", SyncStatus{Online: true, Text: "Synced 4 min ago", AgeMinutes: 4}},
		{"offline", "2025-01-15T14:50:00Z", SyncStatus{Text: "Last sync 10 min ago", OfflineTime: "2:50 PM", AgeMinutes: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildSync(&models.Snapshot{GeneratedAt: tt.generated}, time.Time{}, now, 5*time.Minute)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildSync mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("falls back to receipt time", func(t *testing.T) {
		got := BuildSync(&models.Snapshot{}, now.Add(-2*time.Minute), now, 5*time.Minute)
		if got.Text != "Synced 2 min ago" {
			t.Errorf("Text = %q, want Synced 2 min ago", got.Text)
		}
	})
}

func TestDailyQuote(t *testing.T) {
	quotes := []models.Quote{{Text: "zero"}, {Text: "one"}, {Text: "two"}, {Text: "three"}, {Text: "four"}}
	tests := map[string]string{
		"2025-01-15": "four",
		"2025-01-16": "zero",
		"2026-03-01": "two",
	}
	for date, want := range tests {
		got := DailyQuote(quotes, date)
		if got == nil || got.Text != want {
			t.Errorf("DailyQuote(%s) = %v, want %s", date, got, want)
		}
	}
	if DailyQuote(nil, "2025-01-15") != nil {
		t.Error("DailyQuote(nil) should be nil")
	}
}
