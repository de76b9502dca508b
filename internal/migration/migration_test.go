package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, body := range files {
		m[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return m
}

func TestPlaceholder(t *testing.T) {
	if got := SQLite.Placeholder(3); got != "?" {
		t.Errorf("SQLite.Placeholder(3) = %q", got)
	}
	if got := Postgres.Placeholder(3); got != "$3" {
		t.Errorf("Postgres.Placeholder(3) = %q", got)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    []int
		wantErr string
	}{
		{
			name:  "sorted by version",
			files: map[string]string{"002_b.sql": "x", "001_a.sql": "y", "README.md": "z"},
			want:  []int{1, 2},
		},
		{
			name:    "bad name",
			files:   map[string]string{"init.sql": "x"},
			wantErr: "invalid migration filename",
		},
		{
			name:    "duplicate version",
			files:   map[string]string{"001_a.sql": "x", "0001_b.sql": "y"},
			wantErr: "duplicate migration version 1",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_a.sql": "x"},
			wantErr: "version must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(nil, testFS(tt.files))
			got, err := r.ReadMigrationFiles()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMigrationFiles() error = %v", err)
			}
			var versions []int
			for _, m := range got {
				versions = append(versions, m.Version)
			}
			if len(versions) != len(tt.want) {
				t.Fatalf("versions = %v, want %v", versions, tt.want)
			}
			for i := range versions {
				if versions[i] != tt.want[i] {
					t.Errorf("versions = %v, want %v", versions, tt.want)
				}
			}
		})
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := openTestDB(t)
	files := map[string]string{
		"001_init.sql": "CREATE TABLE a (id INTEGER PRIMARY KEY);",
	}

	r := NewRunner(db, testFS(files))
	n, err := r.ApplyMigrations(nil)
	if err != nil || n != 1 {
		t.Fatalf("ApplyMigrations() = %d, %v", n, err)
	}

	files["002_b.sql"] = "CREATE TABLE b (id INTEGER PRIMARY KEY);"
	r = NewRunner(db, testFS(files))
	pending, err := r.Pending()
	if err != nil || len(pending) != 1 || pending[0].Name != "b" {
		t.Fatalf("Pending() = %+v, %v", pending, err)
	}

	var logs []string
	n, err = r.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil || n != 1 {
		t.Fatalf("ApplyMigrations() = %d, %v", n, err)
	}
	if v, _ := r.GetCurrentVersion(); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	n, err = r.ApplyMigrations(nil)
	if err != nil || n != 0 {
		t.Errorf("second run = %d, %v, want no-op", n, err)
	}
}

func TestApplyMigrationsRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	r := NewRunner(db, testFS(map[string]string{
		"001_init.sql":   "CREATE TABLE a (id INTEGER PRIMARY KEY);",
		"002_broken.sql": "CREATE TABLE nope (",
	}))

	n, err := r.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected error from broken migration")
	}
	if n != 1 {
		t.Errorf("applied = %d, want 1", n)
	}
	if v, _ := r.GetCurrentVersion(); v != 1 {
		t.Errorf("version = %d, want 1 after rollback", v)
	}
}

func TestValidateVersionNewerSchema(t *testing.T) {
	db := openTestDB(t)
	r := NewRunner(db, testFS(map[string]string{"001_init.sql": "SELECT 1;"}))
	if err := r.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	err := r.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() = %v", err)
	}
	if _, err := r.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should refuse a newer schema")
	}
}
