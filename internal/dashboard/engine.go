// Package dashboard owns the mutable state of a running dashboard: the last
// accepted snapshot, the night-mode lifecycle and the previous block name.
// Both hosts (the TUI and the headless runner) drive the same Engine.
package dashboard

import (
	"sync"
	"time"

	"github.com/julianstephens/focusboard/internal/clock"
	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/dayphase"
	"github.com/julianstephens/focusboard/internal/logger"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/nightmode"
	"github.com/julianstephens/focusboard/internal/timemap"
	"github.com/julianstephens/focusboard/internal/validation"
	"github.com/julianstephens/focusboard/internal/viewmodel"
)

// EventKind classifies something a host may want to react to.
type EventKind int

const (
	EventBlockChanged EventKind = iota + 1
	EventFellBehind
	EventNightEntered
	EventNightExited
)

func (k EventKind) String() string {
	switch k {
	case EventBlockChanged:
		return "block_changed"
	case EventFellBehind:
		return "fell_behind"
	case EventNightEntered:
		return "night_entered"
	case EventNightExited:
		return "night_exited"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind     EventKind
	Block    string
	Previous string
	Behind   int
	Text     string
}

// Engine is safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	clock   clock.Clock
	loc     *time.Location
	opts    viewmodel.Options
	night   *nightmode.Lifecycle
	checker *validation.Validator

	snapshot *models.Snapshot
	received time.Time
	quotes   []models.Quote
	streaks  map[string]int
	warnings []string

	issued   uint64
	accepted uint64

	prevBlock    string
	transitionAt time.Time
	wasBehind    bool
	lastErr      error
}

// NewEngine returns an engine with no snapshot.
func NewEngine(cfg config.Config, clk clock.Clock) *Engine {
	loc := cfg.Location()
	if clk == nil {
		clk = clock.RealClock{Loc: loc}
	}
	return &Engine{
		clock:   clk,
		loc:     loc,
		opts:    viewmodel.OptionsFromConfig(cfg),
		night:   nightmode.NewLifecycle(cfg.Night),
		checker: validation.New(),
	}
}

// Now is the current instant in the configured timezone. Schedule times,
// the night window and the countdown are all wall-clock values there.
func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) now() time.Time {
	return e.clock.Now().In(e.loc)
}

// NextSeq issues the sequence number for a new poll.
func (e *Engine) NextSeq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.issued++
	return e.issued
}

// Accept applies a finished poll. Results older than the newest accepted one
// are dropped and Accept reports false. Failed or unmodified polls keep the
// current snapshot.
func (e *Engine) Accept(res PollResult) ([]Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if res.Seq < e.accepted {
		logger.Debug("Discarding stale poll result", "seq", res.Seq, "newest", e.accepted)
		return nil, false
	}
	e.accepted = res.Seq

	if res.OverrideSet {
		e.night.SetOverride(res.Override)
	}
	if res.Quotes != nil {
		e.quotes = res.Quotes
	}

	now := e.now()
	events := e.evaluateNightLocked(now)

	e.lastErr = res.Err
	if res.Err != nil {
		logger.Warn("Poll failed, keeping last snapshot", "seq", res.Seq, "err", res.Err)
		return events, true
	}
	if res.Snapshot == nil {
		return events, true
	}

	e.snapshot = res.Snapshot
	e.received = res.ReceivedAt
	if e.received.IsZero() {
		e.received = now
	}
	e.warnings = nil
	if vr := e.checker.ValidateSnapshot(res.Snapshot); vr.HasConflicts() {
		e.warnings = vr.Descriptions()
	}

	block := res.Snapshot.Now.Block
	if e.prevBlock != "" && e.prevBlock != block {
		e.transitionAt = now
		events = append(events, Event{Kind: EventBlockChanged, Block: block, Previous: e.prevBlock})
	}
	e.prevBlock = block

	if ev, ok := e.behindEdge(now); ok {
		events = append(events, ev)
	}
	return events, true
}

// Tick evaluates time-driven state: the night lifecycle and whether the
// clock has moved past the checked-current block.
func (e *Engine) Tick() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	events := e.evaluateNightLocked(now)
	if ev, ok := e.behindEdge(now); ok {
		events = append(events, ev)
	}
	return events
}

// evaluateNightLocked moves the night lifecycle. It runs on every clock
// tick and every poll, and the phase reads only its state. Callers hold mu.
func (e *Engine) evaluateNightLocked(now time.Time) []Event {
	switch e.night.Evaluate(now) {
	case nightmode.Entered:
		logger.Info("Night mode entered")
		return []Event{{Kind: EventNightEntered}}
	case nightmode.Exited:
		logger.Info("Night mode exited")
		return []Event{{Kind: EventNightExited}}
	}
	return nil
}

// behindEdge reports the first pass on which the schedule is behind. The
// flag resets once the user catches up. Callers hold mu.
func (e *Engine) behindEdge(now time.Time) (Event, bool) {
	_, r := e.resolveLocked(now)
	if !r.Behind || r.Phase != dayphase.InProgress {
		e.wasBehind = false
		return Event{}, false
	}
	if e.wasBehind {
		return Event{}, false
	}
	e.wasBehind = true
	return Event{Kind: EventFellBehind, Block: e.snapshot.Now.Block, Behind: r.BehindBy, Text: r.BehindText}, true
}

func (e *Engine) resolveLocked(now time.Time) (timemap.Mapping, dayphase.Result) {
	var blocks []models.ScheduleBlock
	if e.snapshot != nil {
		blocks = e.snapshot.Blocks
	}
	m := timemap.Map(blocks, now)
	night := e.night.Active()
	r := dayphase.Resolve(dayphase.NewInput(e.snapshot, m, night, now))
	if e.snapshot == nil && !night {
		r = dayphase.Result{Phase: dayphase.Waiting, Marker: -1}
	}
	return m, r
}

// Resolve runs the mapping and phase resolution against the last snapshot.
func (e *Engine) Resolve() (timemap.Mapping, dayphase.Result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked(e.now())
}

// View builds the full view model for the current instant.
func (e *Engine) View() viewmodel.Dashboard {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	m, r := e.resolveLocked(now)
	warnings := e.warnings
	if e.lastErr != nil {
		warnings = append(append([]string(nil), warnings...), "Last poll failed: "+e.lastErr.Error())
	}
	return viewmodel.Build(viewmodel.Input{
		Snapshot:   e.snapshot,
		Now:        now,
		Mapping:    m,
		Result:     r,
		Options:    e.opts,
		Quotes:     e.quotes,
		Streaks:    e.streaks,
		LastSync:   e.received,
		Transition: e.inTransitionLocked(now),
		Warnings:   warnings,
	})
}

func (e *Engine) inTransitionLocked(now time.Time) bool {
	if e.transitionAt.IsZero() {
		return false
	}
	return now.Sub(e.transitionAt) < constants.TransitionFadeDuration
}

// Snapshot returns the last accepted snapshot, which may be nil.
func (e *Engine) Snapshot() *models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Restore seeds the engine with a persisted snapshot so a restarted
// dashboard renders before its first poll. It never replaces a snapshot
// that arrived from a poll.
func (e *Engine) Restore(rec models.SnapshotRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snapshot != nil {
		return
	}
	snap := rec.Snapshot
	e.snapshot = &snap
	e.received = rec.ReceivedAt
	e.prevBlock = snap.Now.Block
}

// SetStreaks replaces the locally tracked keystone streaks.
func (e *Engine) SetStreaks(streaks []models.KeystoneStreak) {
	m := make(map[string]int, len(streaks))
	for _, s := range streaks {
		m[s.Key] = s.Current
		if s.Name != "" {
			m[s.Name] = s.Current
		}
	}
	e.mu.Lock()
	e.streaks = m
	e.mu.Unlock()
}

// SetOverride applies a manual day/night override.
func (e *Engine) SetOverride(mode constants.OverrideMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.night.SetOverride(mode)
}

// ToggleNight flips the forced night flag and reports the new value.
func (e *Engine) ToggleNight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.night.Toggle()
}

// NightActive reports the lifecycle state as of the last Tick or poll.
func (e *Engine) NightActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.night.Active()
}

// CountdownGeneration returns the current night countdown generation.
func (e *Engine) CountdownGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.night.Generation()
}

// CountdownValid reports whether a countdown tick from gen is still live.
func (e *Engine) CountdownValid(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.night.CountdownValid(gen)
}

// Countdown computes the night countdown from the last snapshot.
func (e *Engine) Countdown() (dayphase.Countdown, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snapshot == nil {
		return dayphase.Countdown{}, false
	}
	return dayphase.NightCountdown(e.snapshot.Blocks, e.now())
}

// LastError returns the error of the most recent accepted poll.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}
