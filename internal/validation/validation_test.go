package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/models"
)

func hasConflict(result ValidationResult, ct constants.ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidateSnapshot_Clean(t *testing.T) {
	snap := &models.Snapshot{
		Date: "2025-01-15",
		Blocks: []models.ScheduleBlock{
			{Time: "6:30", Block: "Morning", Done: true},
			{Time: "9:00", Block: "Deep", IsCurrent: true},
			{Time: "2:00", Block: "Afternoon"},
		},
	}

	result := New().ValidateSnapshot(snap)
	if result.HasConflicts() {
		t.Errorf("unexpected conflicts:\n%s", result.FormatReport())
	}
	if got := result.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}

func TestValidateSnapshot_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		snap models.Snapshot
		want constants.ConflictType
	}{
		{
			name: "malformed time",
			snap: models.Snapshot{Blocks: []models.ScheduleBlock{{Time: "noon", Block: "Lunch"}}},
			want: constants.ConflictMalformedTime,
		},
		{
			name: "out of range minute",
			snap: models.Snapshot{Blocks: []models.ScheduleBlock{{Time: "9:75", Block: "Odd"}}},
			want: constants.ConflictMalformedTime,
		},
		{
			name: "non monotonic after carry",
			snap: models.Snapshot{Blocks: []models.ScheduleBlock{
				{Time: "14:00", Block: "A"},
				{Time: "13:00", Block: "B"},
			}},
			want: constants.ConflictNonMonotonic,
		},
		{
			name: "multiple current",
			snap: models.Snapshot{Blocks: []models.ScheduleBlock{
				{Time: "9:00", Block: "A", IsCurrent: true},
				{Time: "10:00", Block: "B", IsCurrent: true},
			}},
			want: constants.ConflictMultipleCurrent,
		},
		{
			name: "current but done",
			snap: models.Snapshot{Blocks: []models.ScheduleBlock{{Time: "9:00", Block: "A", IsCurrent: true, Done: true}}},
			want: constants.ConflictCurrentDone,
		},
		{
			name: "all done with open blocks",
			snap: models.Snapshot{
				Meta:   models.Meta{AllDone: true},
				Blocks: []models.ScheduleBlock{{Time: "9:00", Block: "A"}},
			},
			want: constants.ConflictAllDoneWithOpen,
		},
		{
			name: "no schedule with blocks",
			snap: models.Snapshot{
				Meta:   models.Meta{NoSchedule: true},
				Blocks: []models.ScheduleBlock{{Time: "9:00", Block: "A"}},
			},
			want: constants.ConflictScheduleFlagEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateSnapshot(&tt.snap)
			if !hasConflict(result, tt.want) {
				t.Errorf("expected %s conflict, got:\n%s", tt.want, result.FormatReport())
			}
			if !strings.HasPrefix(result.FormatReport(), "Conflicts detected:") {
				t.Errorf("FormatReport() = %q", result.FormatReport())
			}
		})
	}
}

func TestValidateSnapshot_Nil(t *testing.T) {
	result := New().ValidateSnapshot(nil)
	if result.HasConflicts() {
		t.Error("nil snapshot should have no conflicts")
	}
}
