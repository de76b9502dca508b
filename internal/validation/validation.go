// Package validation reports inconsistencies in a state snapshot. Nothing
// here is fatal to rendering; conflicts are surfaced as warnings.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/timemap"
)

// Conflict represents a detected problem in a snapshot
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Date        string // YYYY-MM-DD, from the snapshot
	Items       []string
	Indexes     []int
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Descriptions returns one line per conflict.
func (vr *ValidationResult) Descriptions() []string {
	out := make([]string, len(vr.Conflicts))
	for i, c := range vr.Conflicts {
		out[i] = c.Description
	}
	return out
}

// Validator validates snapshots for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateSnapshot checks the snapshot's blocks and meta flags.
func (v *Validator) ValidateSnapshot(snap *models.Snapshot) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	if snap == nil {
		return result
	}

	minutes, errs := timemap.MapBlockTimes(snap.Blocks)
	for _, err := range errs {
		var mte *timemap.MalformedTimeError
		if !errors.As(err, &mte) {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictMalformedTime,
			Description: fmt.Sprintf("Block %q has malformed time %q (%s)", snap.Blocks[mte.Index].Name(), mte.Value, mte.Reason),
			Date:        snap.Date,
			Items:       []string{snap.Blocks[mte.Index].Name()},
			Indexes:     []int{mte.Index},
		})
	}

	// Resolved values should never go backwards once the PM carry is applied.
	prev, prevIdx := timemap.Unknown, -1
	for i, m := range minutes {
		if m == timemap.Unknown {
			continue
		}
		if prev != timemap.Unknown && m < prev {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: constants.ConflictNonMonotonic,
				Description: fmt.Sprintf("Block %q (%s) starts before %q (%s)",
					snap.Blocks[i].Name(), snap.Blocks[i].Time, snap.Blocks[prevIdx].Name(), snap.Blocks[prevIdx].Time),
				Date:    snap.Date,
				Items:   []string{snap.Blocks[prevIdx].Name(), snap.Blocks[i].Name()},
				Indexes: []int{prevIdx, i},
			})
		}
		prev, prevIdx = m, i
	}

	var current []int
	var open int
	for i, b := range snap.Blocks {
		if b.IsCurrent {
			current = append(current, i)
			if b.Done {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        constants.ConflictCurrentDone,
					Description: fmt.Sprintf("Block %q is marked current but already done", b.Name()),
					Date:        snap.Date,
					Items:       []string{b.Name()},
					Indexes:     []int{i},
				})
			}
		}
		if !b.Done {
			open++
		}
	}
	if len(current) > 1 {
		names := make([]string, len(current))
		for i, idx := range current {
			names[i] = snap.Blocks[idx].Name()
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictMultipleCurrent,
			Description: fmt.Sprintf("%d blocks are marked current (%s); the first one is used", len(current), strings.Join(names, ", ")),
			Date:        snap.Date,
			Items:       names,
			Indexes:     current,
		})
	}

	if snap.Meta.AllDone && open > 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictAllDoneWithOpen,
			Description: fmt.Sprintf("Day is flagged all done but %d block(s) are not done", open),
			Date:        snap.Date,
		})
	}
	if snap.Meta.NoSchedule && len(snap.Blocks) > 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictScheduleFlagEmpty,
			Description: fmt.Sprintf("Day is flagged no schedule but has %d block(s)", len(snap.Blocks)),
			Date:        snap.Date,
		})
	}

	return result
}
