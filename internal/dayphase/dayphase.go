// Package dayphase decides which of the dashboard's day phases applies to a
// snapshot and classifies each schedule block against the wall clock.
package dayphase

import (
	"fmt"
	"time"

	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/timemap"
)

type Phase int

const (
	Waiting Phase = iota
	InProgress
	DayComplete
	NightMode
)

func (p Phase) String() string {
	switch p {
	case Waiting:
		return "waiting"
	case InProgress:
		return "in_progress"
	case DayComplete:
		return "day_complete"
	case NightMode:
		return "night"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Status int

const (
	Pending Status = iota
	Done
	CurrentActive
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Done:
		return "done"
	case CurrentActive:
		return "current"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Input is everything the resolver reads for one pass.
type Input struct {
	Blocks       []models.ScheduleBlock
	TimePosition int
	CurrentIndex int
	AllDone      bool
	NoSchedule   bool
	Night        bool
	Now          time.Time
}

// Result is the resolver's verdict for one pass.
type Result struct {
	Phase      Phase
	Behind     bool
	BehindBy   int
	BehindText string
	Statuses   []Status
	Marker     int
	HasMarker  bool
	Countdown  Countdown
	HasCount   bool
}

// NewInput builds resolver input from a snapshot and a time mapping.
func NewInput(snap *models.Snapshot, m timemap.Mapping, night bool, now time.Time) Input {
	in := Input{
		TimePosition: m.TimePosition,
		CurrentIndex: -1,
		Night:        night,
		Now:          now,
	}
	if snap != nil {
		in.Blocks = snap.Blocks
		in.CurrentIndex = CurrentIndex(snap.Blocks)
		in.AllDone = snap.Meta.AllDone
		in.NoSchedule = snap.Meta.NoSchedule
	}
	return in
}

// Resolve applies the phase decision order: night, then day complete, then
// waiting, then in progress. It has no side effects.
func Resolve(in Input) Result {
	if in.Night {
		r := Result{Phase: NightMode, Marker: -1}
		r.Countdown, r.HasCount = NightCountdown(in.Blocks, in.Now)
		return r
	}
	// Outside night the schedule list is always drawn, so statuses and the
	// marker are resolved whatever the phase.
	r := Result{
		Phase:    InProgress,
		Statuses: ClassifyBlocks(in.Blocks, in.CurrentIndex, in.TimePosition),
	}
	r.Marker, r.HasMarker = MarkerPosition(in.TimePosition, in.CurrentIndex, len(in.Blocks))

	switch {
	case in.AllDone:
		r.Phase = DayComplete
	case in.NoSchedule:
		r.Phase = Waiting
	default:
		if n, ok := BehindBy(in.CurrentIndex, in.TimePosition); ok {
			r.Behind = true
			r.BehindBy = n
			r.BehindText = BehindText(n)
		}
	}
	return r
}

// CurrentIndex returns the index of the first block flagged is_current, or -1.
func CurrentIndex(blocks []models.ScheduleBlock) int {
	for i, b := range blocks {
		if b.IsCurrent {
			return i
		}
	}
	return -1
}

// BehindBy reports how many blocks the clock is ahead of the checked-current
// block. Only meaningful when a block is checked current.
func BehindBy(currentIdx, timePos int) (int, bool) {
	if currentIdx < 0 || timePos <= currentIdx {
		return 0, false
	}
	return timePos - currentIdx, true
}

func BehindText(n int) string {
	if n == 1 {
		return "1 block behind schedule"
	}
	return fmt.Sprintf("%d blocks behind schedule", n)
}

// ClassifyBlocks assigns a status to every block. Rules apply in order:
// done, checked current, before the checked-current block, then between the
// checked-current block and the clock.
func ClassifyBlocks(blocks []models.ScheduleBlock, currentIdx, timePos int) []Status {
	out := make([]Status, len(blocks))
	for i, b := range blocks {
		switch {
		case b.Done:
			out[i] = Done
		case b.IsCurrent:
			out[i] = CurrentActive
		case i < currentIdx:
			out[i] = Skipped
		case timePos >= 0 && i >= currentIdx && i < timePos:
			out[i] = Skipped
		default:
			out[i] = Pending
		}
	}
	return out
}

// MarkerPosition returns where the NOW marker goes in a list of n blocks.
// A position of n means after the last block. There is no marker before the
// first block starts or when the clock agrees with the checked-current block.
func MarkerPosition(timePos, currentIdx, n int) (int, bool) {
	if timePos < 0 || timePos == currentIdx {
		return -1, false
	}
	pos := timePos + 1
	if pos > n {
		pos = n
	}
	return pos, true
}
