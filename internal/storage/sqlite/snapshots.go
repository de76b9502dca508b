package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/storage"
)

// Fixed-width so that string order matches time order.
const timestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

func (s *Store) SaveSnapshot(rec models.SnapshotRecord) error {
	payload, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, date, received_at, phase, current_block, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			received_at = excluded.received_at,
			phase = excluded.phase,
			current_block = excluded.current_block,
			payload = excluded.payload`,
		rec.ID, rec.Date, rec.ReceivedAt.UTC().Format(timestampFormat), rec.Phase, rec.Snapshot.Now.Block, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Store) GetLatestSnapshot() (models.SnapshotRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, date, received_at, phase, payload
		FROM snapshots ORDER BY received_at DESC LIMIT 1`)

	var rec models.SnapshotRecord
	var receivedAt, payload string
	if err := row.Scan(&rec.ID, &rec.Date, &receivedAt, &rec.Phase, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SnapshotRecord{}, storage.ErrNoSnapshots
		}
		return models.SnapshotRecord{}, err
	}
	t, err := time.Parse(timestampFormat, receivedAt)
	if err != nil {
		return models.SnapshotRecord{}, fmt.Errorf("failed to parse received_at: %w", err)
	}
	rec.ReceivedAt = t
	if err := json.Unmarshal([]byte(payload), &rec.Snapshot); err != nil {
		return models.SnapshotRecord{}, fmt.Errorf("failed to decode snapshot %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (s *Store) ListSnapshots(limit int) ([]models.SnapshotRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, date, received_at, phase, current_block
		FROM snapshots ORDER BY received_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.SnapshotRecord
	for rows.Next() {
		var rec models.SnapshotRecord
		var receivedAt string
		if err := rows.Scan(&rec.ID, &rec.Date, &receivedAt, &rec.Phase, &rec.Snapshot.Now.Block); err != nil {
			return nil, err
		}
		if rec.ReceivedAt, err = time.Parse(timestampFormat, receivedAt); err != nil {
			return nil, fmt.Errorf("failed to parse received_at for snapshot %s: %w", rec.ID, err)
		}
		rec.Snapshot.Date = rec.Date
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) PruneSnapshots(keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM snapshots WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY received_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

func (s *Store) RecordKeystones(date string, keystones []models.Keystone) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ks := range keystones {
		key := storage.KeystoneKey(ks)
		if key == "" {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO keystone_log (day, key, name, done, critical)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(day, key) DO UPDATE SET
				name = excluded.name,
				done = excluded.done,
				critical = excluded.critical`,
			date, key, ks.Name, ks.Done, ks.Critical)
		if err != nil {
			return fmt.Errorf("failed to record keystone %s: %w", key, err)
		}
	}

	if cutoff, ok := storage.RetentionCutoff(date); ok {
		if _, err := tx.Exec("DELETE FROM keystone_log WHERE day < ?", cutoff); err != nil {
			return fmt.Errorf("failed to prune keystone log: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetKeystoneLog(sinceDay string) ([]storage.KeystoneEntry, error) {
	rows, err := s.db.Query(`
		SELECT day, key, name, done, critical
		FROM keystone_log WHERE day >= ?
		ORDER BY key, day`, sinceDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []storage.KeystoneEntry
	for rows.Next() {
		var e storage.KeystoneEntry
		if err := rows.Scan(&e.Day, &e.Key, &e.Name, &e.Done, &e.Critical); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetKeystoneStreaks() ([]models.KeystoneStreak, error) {
	entries, err := s.GetKeystoneLog("")
	if err != nil {
		return nil, err
	}
	return storage.ComputeStreaks(entries), nil
}
