// Package storage defines the snapshot history and keystone log shared by
// the sqlite and postgres backends.
package storage

import (
	"errors"
	"strings"

	"github.com/julianstephens/focusboard/internal/models"
)

// ErrNoSnapshots is returned when the history is empty.
var ErrNoSnapshots = errors.New("no stored snapshots")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Snapshots
	SaveSnapshot(models.SnapshotRecord) error
	GetLatestSnapshot() (models.SnapshotRecord, error)
	// ListSnapshots returns up to limit records, newest first, without
	// their payloads decoded beyond the current block.
	ListSnapshots(limit int) ([]models.SnapshotRecord, error)
	PruneSnapshots(keep int) error

	// Keystones
	RecordKeystones(date string, keystones []models.Keystone) error
	GetKeystoneLog(sinceDay string) ([]KeystoneEntry, error)
	GetKeystoneStreaks() ([]models.KeystoneStreak, error)

	// Utils
	GetConfigPath() string
}

// KeystoneEntry is one keystone's state on one day.
type KeystoneEntry struct {
	Day      string
	Key      string
	Name     string
	Done     bool
	Critical bool
}

// KeystoneKey identifies a keystone across days: its id when present,
// otherwise its lowercased name.
func KeystoneKey(k models.Keystone) string {
	if k.ID != "" {
		return k.ID
	}
	return strings.ToLower(strings.TrimSpace(k.Name))
}
