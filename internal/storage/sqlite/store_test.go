package sqlite

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "focusboard.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func record(id string, at time.Time, block string) models.SnapshotRecord {
	return models.SnapshotRecord{
		ID:         id,
		Date:       at.Format("2006-01-02"),
		ReceivedAt: at,
		Phase:      "in_progress",
		Snapshot: models.Snapshot{
			Date: at.Format("2006-01-02"),
			Now:  models.NowInfo{Block: block},
			Blocks: []models.ScheduleBlock{
				{Time: "9:00", Block: block, IsCurrent: true},
			},
		},
	}
}

func TestLoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); err == nil {
		t.Fatal("Load() on missing database should fail")
	}
}

func TestInitThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusboard.db")
	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	_ = s.Close()

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	current, latest, err := reopened.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if current != latest || current == 0 {
		t.Errorf("SchemaVersion() = (%d, %d), want equal and non-zero", current, latest)
	}
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", reopened.GetConfigPath(), path)
	}
}

func TestOpenUsesWAL(t *testing.T) {
	s := newTestStore(t)

	var mode string
	if err := s.GetDB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode error = %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestLatestSnapshotEmpty(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetLatestSnapshot(); !errors.Is(err, storage.ErrNoSnapshots) {
		t.Errorf("GetLatestSnapshot() error = %v, want ErrNoSnapshots", err)
	}
}

func TestSaveAndLatestSnapshot(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)

	for i, block := range []string{"Morning Pages", "Deep Work", "Lunch"} {
		rec := record(block, base.Add(time.Duration(i)*time.Minute), block)
		if err := s.SaveSnapshot(rec); err != nil {
			t.Fatalf("SaveSnapshot(%s) error = %v", block, err)
		}
	}

	got, err := s.GetLatestSnapshot()
	if err != nil {
		t.Fatalf("GetLatestSnapshot() error = %v", err)
	}
	want := record("Lunch", base.Add(2*time.Minute), "Lunch")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetLatestSnapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestListAndPruneSnapshots(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	ids := []string{"a", "b", "c", "d"}
	for i, id := range ids {
		if err := s.SaveSnapshot(record(id, base.Add(time.Duration(i)*time.Second), "Block "+id)); err != nil {
			t.Fatalf("SaveSnapshot(%s) error = %v", id, err)
		}
	}

	if err := s.PruneSnapshots(2); err != nil {
		t.Fatalf("PruneSnapshots() error = %v", err)
	}
	list, err := s.ListSnapshots(10)
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	var got []string
	for _, r := range list {
		got = append(got, r.ID+":"+r.Snapshot.Now.Block)
	}
	want := []string{"d:Block d", "c:Block c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListSnapshots() after prune mismatch (-want +got):\n%s", diff)
	}
}

func TestKeystoneStreaks(t *testing.T) {
	s := newTestStore(t)
	days := []struct {
		date string
		done bool
	}{
		{"2026-02-01", true},
		{"2026-02-02", true},
		{"2026-02-03", false},
	}
	for _, d := range days {
		ks := []models.Keystone{{Name: "Meditate", Done: d.done, Critical: true}}
		if err := s.RecordKeystones(d.date, ks); err != nil {
			t.Fatalf("RecordKeystones(%s) error = %v", d.date, err)
		}
	}
	// Re-recording a day overwrites it.
	if err := s.RecordKeystones("2026-02-03", []models.Keystone{{Name: "Meditate", Done: true}}); err != nil {
		t.Fatalf("RecordKeystones() error = %v", err)
	}

	got, err := s.GetKeystoneStreaks()
	if err != nil {
		t.Fatalf("GetKeystoneStreaks() error = %v", err)
	}
	want := []models.KeystoneStreak{
		{Key: "meditate", Name: "Meditate", Current: 3, Best: 3, LastDone: "2026-02-03"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetKeystoneStreaks() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordKeystonesPrunesOldDays(t *testing.T) {
	s := newTestStore(t)
	ks := []models.Keystone{{ID: "walk", Name: "Walk", Done: true}}
	if err := s.RecordKeystones("2026-01-01", ks); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordKeystones("2026-03-01", ks); err != nil {
		t.Fatal(err)
	}

	entries, err := s.GetKeystoneLog("")
	if err != nil {
		t.Fatalf("GetKeystoneLog() error = %v", err)
	}
	want := []storage.KeystoneEntry{{Day: "2026-03-01", Key: "walk", Name: "Walk", Done: true}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("GetKeystoneLog() mismatch (-want +got):\n%s", diff)
	}
}
