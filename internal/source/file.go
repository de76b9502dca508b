package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileSource reads a document from the local filesystem and reports
// ErrNotModified while its size and modification time are unchanged.
type FileSource struct {
	path string

	mu      sync.Mutex
	modTime time.Time
	size    int64
	seen    bool
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Location() string { return s.path }

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen && info.ModTime().Equal(s.modTime) && info.Size() == s.size {
		return nil, ErrNotModified
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	s.modTime, s.size, s.seen = info.ModTime(), info.Size(), true
	return data, nil
}

// Reset forgets the last observed file state so the next Fetch re-reads.
func (s *FileSource) Reset() {
	s.mu.Lock()
	s.seen = false
	s.mu.Unlock()
}

// WriteFileAtomic writes data via a temp file and rename so readers never
// observe a partial document.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".focusboard-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
