package viewmodel

import (
	"fmt"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/utils"
)

// SyncStatus describes how fresh the displayed snapshot is.
type SyncStatus struct {
	Online      bool   `json:"online"`
	Text        string `json:"text"`
	OfflineTime string `json:"offline_time,omitempty"`
	AgeMinutes  int    `json:"age_minutes"`
}

// BuildSync derives the sync indicator. Age is measured from the snapshot's
// generated_at stamp, falling back to the time it was received.
func BuildSync(snap *models.Snapshot, received, now time.Time, threshold time.Duration) SyncStatus {
	if snap == nil {
		return SyncStatus{Text: "Waiting for first sync..."}
	}
	if threshold <= 0 {
		threshold = constants.DefaultOfflineThreshold
	}

	generated := received
	if t, err := utils.ParseTimestamp(snap.GeneratedAt, now.Location()); err == nil {
		generated = t
	}
	if generated.IsZero() {
		return SyncStatus{Text: "Waiting for first sync..."}
	}

	age := now.Sub(generated)
	if age < 0 {
		age = 0
	}
	minutes := int(age / time.Minute)

	if age < threshold {
		text := "Synced just now"
		if minutes >= 1 {
			text = fmt.Sprintf("Synced %d min ago", minutes)
		}
		return SyncStatus{Online: true, Text: text, AgeMinutes: minutes}
	}
	return SyncStatus{
		Text:        fmt.Sprintf("Last sync %d min ago", minutes),
		OfflineTime: utils.FormatClock(generated.In(now.Location())),
		AgeMinutes:  minutes,
	}
}
