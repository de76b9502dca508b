package dashboard

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/julianstephens/focusboard/internal/clock"
	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/dayphase"
	"github.com/julianstephens/focusboard/internal/models"
)

func daySnapshot(current string, currentIdx int) *models.Snapshot {
	snap := &models.Snapshot{
		Date: "2025-01-15",
		Now:  models.NowInfo{Block: current},
	}
	for i, tm := range []string{"6:30", "9:00", "12:00", "2:00", "5:30"} {
		snap.Blocks = append(snap.Blocks, models.ScheduleBlock{Time: tm, Block: "Block " + tm, IsCurrent: i == currentIdx})
	}
	return snap
}

func newTestEngine(at time.Time) (*Engine, *clock.FakeClock) {
	clk := clock.NewFakeClock(at)
	return NewEngine(config.Default(), clk), clk
}

func TestEngineStartsWaiting(t *testing.T) {
	e, _ := newTestEngine(time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local))
	if e.Snapshot() != nil {
		t.Fatal("new engine should have no snapshot")
	}
	if _, r := e.Resolve(); r.Phase != dayphase.Waiting {
		t.Errorf("Phase = %v, want waiting", r.Phase)
	}
	v := e.View()
	if v.Sync.Text != "Waiting for first sync..." {
		t.Errorf("Sync.Text = %q", v.Sync.Text)
	}
}

func TestEngineDiscardsStaleResults(t *testing.T) {
	e, _ := newTestEngine(time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local))

	first := e.NextSeq()
	second := e.NextSeq()

	if _, ok := e.Accept(PollResult{Seq: second, Snapshot: daySnapshot("Newer", 1)}); !ok {
		t.Fatal("newest result was rejected")
	}
	if _, ok := e.Accept(PollResult{Seq: first, Snapshot: daySnapshot("Older", 1)}); ok {
		t.Fatal("stale result was accepted")
	}
	if got := e.Snapshot().Now.Block; got != "Newer" {
		t.Errorf("snapshot block = %q, want Newer", got)
	}
}

func TestEngineKeepsSnapshotOnError(t *testing.T) {
	e, _ := newTestEngine(time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local))
	e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Deep", 1)})

	if _, ok := e.Accept(PollResult{Seq: e.NextSeq(), Err: errors.New("boom")}); !ok {
		t.Fatal("failed poll should still be accepted")
	}
	if e.Snapshot() == nil || e.Snapshot().Now.Block != "Deep" {
		t.Error("snapshot lost after failed poll")
	}
	if e.LastError() == nil {
		t.Error("LastError() = nil after failed poll")
	}

	e.Accept(PollResult{Seq: e.NextSeq()})
	if e.LastError() != nil {
		t.Error("unmodified poll should clear the error")
	}
}

func TestEngineBlockTransition(t *testing.T) {
	e, clk := newTestEngine(time.Date(2025, 1, 15, 9, 30, 0, 0, time.Local))

	events, _ := e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Morning", 1)})
	if hasEvent(events, EventBlockChanged) {
		t.Error("first snapshot should not report a transition")
	}

	events, _ = e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Deep", 1)})
	if !hasEvent(events, EventBlockChanged) {
		t.Fatal("expected block change event")
	}
	if !e.View().Transition {
		t.Error("view should be mid-transition right after a block change")
	}
	clk.Advance(constants.TransitionFadeDuration)
	if e.View().Transition {
		t.Error("transition should end after the fade duration")
	}
}

func TestEngineFellBehindOnce(t *testing.T) {
	e, clk := newTestEngine(time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local))
	e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Block 9:00", 1)})

	clk.Set(time.Date(2025, 1, 15, 12, 30, 0, 0, time.Local))
	events := e.Tick()
	if !hasEvent(events, EventFellBehind) {
		t.Fatalf("expected fell-behind event, got %v", events)
	}
	clk.Advance(time.Minute)
	if hasEvent(e.Tick(), EventFellBehind) {
		t.Error("fell-behind should fire once per episode")
	}
}

func TestEngineNightLifecycle(t *testing.T) {
	e, clk := newTestEngine(time.Date(2025, 1, 15, 17, 59, 0, 0, time.Local))
	e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Evening", 4)})

	if hasEvent(e.Tick(), EventNightEntered) {
		t.Fatal("night entered too early")
	}
	clk.Set(time.Date(2025, 1, 15, 18, 0, 0, 0, time.Local))
	if !hasEvent(e.Tick(), EventNightEntered) {
		t.Fatal("expected night entered at 18:00")
	}
	gen := e.CountdownGeneration()
	if !e.CountdownValid(gen) {
		t.Error("countdown should be valid during night")
	}
	cd, ok := e.Countdown()
	if !ok || cd.Text != "12h 30m" {
		t.Errorf("Countdown() = %q %v, want 12h 30m", cd.Text, ok)
	}

	e.SetOverride(constants.OverrideDay)
	if !hasEvent(e.Tick(), EventNightExited) {
		t.Fatal("day override should exit night")
	}
	if e.CountdownValid(gen) {
		t.Error("old countdown generation should be stale after exit")
	}
}

func TestEngineNightEnteredOnPoll(t *testing.T) {
	e, _ := newTestEngine(time.Date(2025, 1, 15, 22, 0, 0, 0, time.Local))

	if _, r := e.Resolve(); r.Phase == dayphase.NightMode {
		t.Fatal("phase reported night before any tick or poll")
	}

	events, ok := e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Evening", 4)})
	if !ok {
		t.Fatal("Accept() rejected the first poll")
	}
	if !hasEvent(events, EventNightEntered) {
		t.Errorf("Accept() events = %+v, want night entered", events)
	}
	if _, r := e.Resolve(); r.Phase != dayphase.NightMode {
		t.Errorf("Phase = %v, want night", r.Phase)
	}
	if hasEvent(e.Tick(), EventNightEntered) {
		t.Error("tick after the poll entered night a second time")
	}
}

func TestEngineTimezone(t *testing.T) {
	// 09:00 UTC is 18:00 in Tokyo.
	at := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		zone      string
		wantNight bool
	}{
		{zone: "UTC", wantNight: false},
		{zone: "Asia/Tokyo", wantNight: true},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			cfg := config.Default()
			cfg.Timezone = tt.zone
			e := NewEngine(cfg, clock.NewFakeClock(at))

			if got := e.Now().Location().String(); got != tt.zone {
				t.Errorf("Now() zone = %q, want %q", got, tt.zone)
			}
			events, _ := e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Deep", 1)})
			if got := hasEvent(events, EventNightEntered); got != tt.wantNight {
				t.Errorf("night entered = %v, want %v", got, tt.wantNight)
			}
			if got := e.NightActive(); got != tt.wantNight {
				t.Errorf("NightActive() = %v, want %v", got, tt.wantNight)
			}
		})
	}
}

func TestEngineToggleNight(t *testing.T) {
	e, _ := newTestEngine(time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local))
	e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Deep", 1)})

	if !e.ToggleNight() {
		t.Fatal("ToggleNight() = false, want true")
	}
	e.Tick()
	if !e.NightActive() {
		t.Error("forced night should be active after tick")
	}
	if v := e.View(); v.NightView == nil {
		t.Error("view should show the night screen")
	}
}

func TestEngineRestore(t *testing.T) {
	e, _ := newTestEngine(time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local))
	e.Restore(models.SnapshotRecord{ID: "x", Snapshot: *daySnapshot("Stored", 1)})
	if e.Snapshot() == nil || e.Snapshot().Now.Block != "Stored" {
		t.Fatal("Restore did not seed the snapshot")
	}

	e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: daySnapshot("Live", 1)})
	e.Restore(models.SnapshotRecord{Snapshot: *daySnapshot("Stored again", 1)})
	if got := e.Snapshot().Now.Block; got != "Live" {
		t.Errorf("Restore replaced a polled snapshot: %q", got)
	}
}

func TestEngineStreaks(t *testing.T) {
	e, _ := newTestEngine(time.Date(2025, 1, 15, 10, 0, 0, 0, time.Local))
	snap := daySnapshot("Deep", 1)
	snap.Keystones = []models.Keystone{{ID: "gym", Name: "Gym"}}
	e.Accept(PollResult{Seq: e.NextSeq(), Snapshot: snap})
	e.SetStreaks([]models.KeystoneStreak{{Key: "gym", Name: "Gym", Current: 3}})

	v := e.View()
	if len(v.Keystones) != 1 || v.Keystones[0].Streak != "3d" {
		t.Errorf("Keystones = %+v, want streak 3d", v.Keystones)
	}
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
