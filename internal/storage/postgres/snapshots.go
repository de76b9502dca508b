package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/storage"
)

func (s *Store) SaveSnapshot(rec models.SnapshotRecord) error {
	payload, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, date, received_at, phase, current_block, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			date = EXCLUDED.date,
			received_at = EXCLUDED.received_at,
			phase = EXCLUDED.phase,
			current_block = EXCLUDED.current_block,
			payload = EXCLUDED.payload`,
		rec.ID, rec.Date, rec.ReceivedAt.UTC(), rec.Phase, rec.Snapshot.Now.Block, string(payload))
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
	var payload []byte
	if err := row.Scan(&rec.ID, &rec.Date, &rec.ReceivedAt, &rec.Phase, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SnapshotRecord{}, storage.ErrNoSnapshots
		}
		return models.SnapshotRecord{}, err
	}
	if err := json.Unmarshal(payload, &rec.Snapshot); err != nil {
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
		FROM snapshots ORDER BY received_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.SnapshotRecord
	for rows.Next() {
		var rec models.SnapshotRecord
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.ReceivedAt, &rec.Phase, &rec.Snapshot.Now.Block); err != nil {
			return nil, err
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
			SELECT id FROM snapshots ORDER BY received_at DESC LIMIT $1
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
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (day, key) DO UPDATE SET
				name = EXCLUDED.name,
				done = EXCLUDED.done,
				critical = EXCLUDED.critical`,
			date, key, ks.Name, ks.Done, ks.Critical)
		if err != nil {
			return fmt.Errorf("failed to record keystone %s: %w", key, err)
		}
	}

	if cutoff, ok := storage.RetentionCutoff(date); ok {
		if _, err := tx.Exec("DELETE FROM keystone_log WHERE day < $1", cutoff); err != nil {
			return fmt.Errorf("failed to prune keystone log: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetKeystoneLog(sinceDay string) ([]storage.KeystoneEntry, error) {
	rows, err := s.db.Query(`
		SELECT day, key, name, done, critical
		FROM keystone_log WHERE day >= $1
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
