// Package backup snapshots the sqlite history database with VACUUM INTO and
// keeps a bounded number of copies next to it.
package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/logger"
)

const (
	MaxBackups      = constants.MaxBackups
	timestampLayout = "20060102-150405.000"
)

// ErrUnsupported is returned for stores that are not a local sqlite file.
var ErrUnsupported = errors.New("backups are only supported for sqlite storage")

var nowFunc = time.Now

type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// HumanSize renders the file size, e.g. "48 kB".
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

type Manager struct {
	dbPath    string
	backupDir string
	keep      int
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      MaxBackups,
	}
}

func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) supported() error {
	if m.dbPath == "" || m.dbPath == "postgresql" || strings.Contains(m.dbPath, "://") {
		return ErrUnsupported
	}
	return nil
}

// CreateBackup writes a consistent copy of the database and rotates old
// copies. It returns the new backup's path.
func (m *Manager) CreateBackup() (string, error) {
	if err := m.supported(); err != nil {
		return "", err
	}
	if _, err := os.Stat(m.dbPath); err != nil {
		return "", fmt.Errorf("database not found: %w", err)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := constants.BackupFilePrefix + nowFunc().Format(timestampLayout) + constants.BackupFileSuffix
	dest := filepath.Join(m.backupDir, name)

	db, err := sql.Open("sqlite", m.dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("VACUUM INTO '" + strings.ReplaceAll(dest, "'", "''") + "'"); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	logger.Info("Backup created", "path", dest)

	if err := m.rotate(); err != nil {
		logger.Warn("Backup rotation failed", "error", err)
	}
	return dest, nil
}

// ListBackups returns the backups newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	if err := m.supported(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
		ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
		if err != nil {
			ts = fi.ModTime()
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	var errs []error
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RestoreBackup replaces the database with backupPath. The current database
// is backed up first. Every process using the database must be stopped.
func (m *Manager) RestoreBackup(backupPath string) error {
	if err := m.supported(); err != nil {
		return err
	}
	if err := verify(backupPath); err != nil {
		return fmt.Errorf("backup %s is not usable: %w", filepath.Base(backupPath), err)
	}

	// Stage the copy before the safety backup, whose rotation may remove
	// backupPath.
	tmp := m.dbPath + ".restore"
	if err := copyFile(backupPath, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if _, err := os.Stat(m.dbPath); err == nil {
		if _, err := m.CreateBackup(); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("failed to back up current database: %w", err)
		}
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(m.dbPath + suffix)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace database: %w", err)
	}
	logger.Info("Database restored", "from", backupPath)
	return nil
}

// verify checks that path is a sqlite database with a schema version.
func verify(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return fmt.Errorf("no schema version: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create restore file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy backup: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
