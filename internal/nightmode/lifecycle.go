package nightmode

import (
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
)

type State int

const (
	Day State = iota
	Night
)

func (s State) String() string {
	if s == Night {
		return "night"
	}
	return "day"
}

type Transition int

const (
	Unchanged Transition = iota
	Entered
	Exited
)

func (t Transition) String() string {
	switch t {
	case Entered:
		return "entered"
	case Exited:
		return "exited"
	default:
		return "unchanged"
	}
}

// Lifecycle tracks the Day/Night state across clock ticks. Each entry into
// Night opens a new countdown generation; countdown ticks carrying an older
// generation are stale and must be dropped. Not safe for concurrent use.
type Lifecycle struct {
	window     Window
	override   constants.OverrideMode
	forced     bool
	state      State
	generation uint64
}

func NewLifecycle(w Window) *Lifecycle {
	return &Lifecycle{window: w, override: constants.OverrideAuto}
}

func (l *Lifecycle) SetOverride(mode constants.OverrideMode) {
	l.override = mode
}

func (l *Lifecycle) Window() Window {
	return l.window
}

func (l *Lifecycle) Override() constants.OverrideMode {
	return l.override
}

// Toggle flips the forced-night flag and returns the new value.
func (l *Lifecycle) Toggle() bool {
	l.forced = !l.forced
	return l.forced
}

func (l *Lifecycle) Forced() bool {
	return l.forced
}

func (l *Lifecycle) State() State {
	return l.state
}

func (l *Lifecycle) Active() bool {
	return l.state == Night
}

// Evaluate recomputes the state for now and reports the transition.
func (l *Lifecycle) Evaluate(now time.Time) Transition {
	night := IsNight(now, l.window, l.override, l.forced)
	switch {
	case night && l.state == Day:
		l.state = Night
		l.generation++
		return Entered
	case !night && l.state == Night:
		l.state = Day
		l.generation++
		return Exited
	default:
		return Unchanged
	}
}

// Generation identifies the current countdown. It changes on every
// transition, so a countdown started before an exit is never honoured.
func (l *Lifecycle) Generation() uint64 {
	return l.generation
}

// CountdownValid reports whether a countdown tick for gen should run.
func (l *Lifecycle) CountdownValid(gen uint64) bool {
	return l.state == Night && gen == l.generation
}
