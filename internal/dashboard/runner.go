package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/logger"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/source"
	"github.com/julianstephens/focusboard/internal/viewmodel"
)

// Store persists accepted snapshots and keystone history.
type Store interface {
	SaveSnapshot(models.SnapshotRecord) error
	PruneSnapshots(keep int) error
	RecordKeystones(date string, keystones []models.Keystone) error
	GetKeystoneStreaks() ([]models.KeystoneStreak, error)
}

// Notifier delivers a one-line desktop notification.
type Notifier interface {
	Notify(text string) error
}

// Runner is the headless host loop. It polls on a ticker (and on file
// change when the state source is local), evaluates the clock every tick
// and runs the night countdown only while night mode is active.
type Runner struct {
	engine   *Engine
	poller   *Poller
	cfg      config.Config
	store    Store
	notifier Notifier
	onUpdate func(viewmodel.Dashboard)
	onEvent  func(Event)
}

type RunnerOption func(*Runner)

func WithStore(s Store) RunnerOption { return func(r *Runner) { r.store = s } }

func WithNotifier(n Notifier) RunnerOption { return func(r *Runner) { r.notifier = n } }

// WithUpdateHook is called with a fresh view model after every accepted
// snapshot, night transition and countdown tick.
func WithUpdateHook(fn func(viewmodel.Dashboard)) RunnerOption {
	return func(r *Runner) { r.onUpdate = fn }
}

func WithEventHook(fn func(Event)) RunnerOption { return func(r *Runner) { r.onEvent = fn } }

func NewRunner(engine *Engine, poller *Poller, cfg config.Config, opts ...RunnerOption) *Runner {
	r := &Runner{engine: engine, poller: poller, cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prime loads the last persisted snapshot and keystone streaks.
func (r *Runner) Prime(latest func() (models.SnapshotRecord, error)) {
	if latest != nil {
		if rec, err := latest(); err == nil {
			r.engine.Restore(rec)
			logger.Debug("Restored last snapshot", "id", rec.ID, "date", rec.Date)
		}
	}
	r.refreshStreaks()
}

// PollOnce performs a single synchronous poll and applies it.
func (r *Runner) PollOnce(ctx context.Context) error {
	res := r.poller.Poll(ctx, r.engine.NextSeq())
	r.apply(res)
	r.Tick()
	return res.Err
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	clockTicker := time.NewTicker(r.cfg.Intervals.Clock)
	defer clockTicker.Stop()
	pollTicker := time.NewTicker(r.cfg.Intervals.Poll)
	defer pollTicker.Stop()

	var countdown *time.Ticker
	var countdownC <-chan time.Time
	var countdownGen uint64
	stopCountdown := func() {
		if countdown != nil {
			countdown.Stop()
			countdown, countdownC = nil, nil
		}
	}
	defer stopCountdown()
	// Night can begin on a poll (override file) as well as on a clock tick.
	followNight := func(events []Event) {
		for _, ev := range events {
			switch ev.Kind {
			case EventNightEntered:
				stopCountdown()
				countdownGen = r.engine.CountdownGeneration()
				countdown = time.NewTicker(r.cfg.Intervals.Countdown)
				countdownC = countdown.C
				r.update()
			case EventNightExited:
				stopCountdown()
				r.update()
			}
		}
	}

	log := logger.For("runner")

	var changed <-chan struct{}
	if !source.IsURL(r.poller.StateLocation()) {
		ch, err := source.Watch(ctx, r.poller.StateLocation())
		if err != nil {
			log.Warn("File watch unavailable, polling only", "path", r.poller.StateLocation(), "err", err)
		} else {
			changed = ch
		}
	}

	results := make(chan PollResult, 4)
	poll := func() {
		seq := r.engine.NextSeq()
		go func() {
			res := r.poller.Poll(ctx, seq)
			select {
			case results <- res:
			case <-ctx.Done():
			}
		}()
	}

	log.Info("Dashboard runner started",
		"state", r.poller.StateLocation(),
		"poll", r.cfg.Intervals.Poll,
		"clock", r.cfg.Intervals.Clock)
	poll()

	for {
		select {
		case <-ctx.Done():
			log.Info("Dashboard runner stopped")
			return nil

		case <-pollTicker.C:
			poll()

		case <-changed:
			log.Debug("State file changed")
			poll()

		case res := <-results:
			followNight(r.apply(res))

		case <-clockTicker.C:
			followNight(r.Tick())

		case <-countdownC:
			if !r.engine.CountdownValid(countdownGen) {
				stopCountdown()
				continue
			}
			r.update()
		}
	}
}

// Engine returns the engine the runner drives.
func (r *Runner) Engine() *Engine { return r.engine }

func (r *Runner) Poller() *Poller { return r.poller }

// Apply feeds a finished poll through the engine, then persists the
// snapshot and dispatches the resulting events, which it returns. Hosts
// that run their own loop (the TUI) call it instead of Run.
func (r *Runner) Apply(res PollResult) []Event { return r.apply(res) }

// Tick evaluates the clock and dispatches any events it produced.
func (r *Runner) Tick() []Event {
	events := r.engine.Tick()
	r.handle(events)
	return events
}

// apply also reports failed and unchanged polls to the update hook, so a
// headless host sees the sync state change.
func (r *Runner) apply(res PollResult) []Event {
	events, ok := r.engine.Accept(res)
	if !ok {
		return nil
	}
	if res.Snapshot != nil {
		r.persist(res)
	}
	r.handle(events)
	r.update()
	return events
}

func (r *Runner) handle(events []Event) {
	for _, ev := range events {
		r.dispatch(ev)
	}
}

func (r *Runner) dispatch(ev Event) {
	logger.Debug("Dashboard event", "kind", ev.Kind, "block", ev.Block)
	if r.onEvent != nil {
		r.onEvent(ev)
	}
	switch ev.Kind {
	case EventBlockChanged:
		r.notify(fmt.Sprintf("Now: %s", ev.Block))
	case EventFellBehind:
		r.notify(fmt.Sprintf("%s: %s", ev.Block, ev.Text))
	}
}

func (r *Runner) notify(text string) {
	if r.notifier == nil || !r.cfg.Notifications.Enabled {
		return
	}
	if r.cfg.Notifications.DryRun {
		logger.Info("Would send notification", "text", text)
		return
	}
	if err := r.notifier.Notify(text); err != nil {
		logger.Warn("Failed to send notification", "err", err)
	}
}

func (r *Runner) persist(res PollResult) {
	if r.store == nil {
		return
	}
	snap := res.Snapshot
	_, result := r.engine.Resolve()
	id := res.ID
	if id == "" {
		id = uuid.NewString()
	}
	rec := models.SnapshotRecord{
		ID:         id,
		Date:       snap.Date,
		ReceivedAt: res.ReceivedAt,
		Phase:      result.Phase.String(),
		Snapshot:   *snap,
	}
	if err := r.store.SaveSnapshot(rec); err != nil {
		logger.Warn("Failed to save snapshot", "id", id, "err", err)
		return
	}
	if keep := r.cfg.Storage.HistoryKeep; keep > 0 {
		if err := r.store.PruneSnapshots(keep); err != nil {
			logger.Warn("Failed to prune snapshots", "err", err)
		}
	}
	if snap.Date != "" && len(snap.Keystones) > 0 {
		if err := r.store.RecordKeystones(snap.Date, snap.Keystones); err != nil {
			logger.Warn("Failed to record keystones", "date", snap.Date, "err", err)
		}
		r.refreshStreaks()
	}
}

func (r *Runner) refreshStreaks() {
	if r.store == nil {
		return
	}
	streaks, err := r.store.GetKeystoneStreaks()
	if err != nil {
		logger.Warn("Failed to load keystone streaks", "err", err)
		return
	}
	r.engine.SetStreaks(streaks)
}

func (r *Runner) update() {
	if r.onUpdate != nil {
		r.onUpdate(r.engine.View())
	}
}
