// Package source fetches the state snapshot, override signal and quotes
// from a local file or an HTTP endpoint.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/nightmode"
)

var (
	// ErrNotModified means the document is unchanged since the last fetch.
	ErrNotModified = errors.New("source not modified")
	// ErrNotFound means the document does not exist (missing file or 404).
	ErrNotFound = errors.New("source not found")
)

// Fetcher retrieves the raw bytes of one document.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// Resetter is implemented by fetchers that cache the last observed version
// of their document.
type Resetter interface {
	Reset()
}

// forget drops the cached version so an undecodable document is read and
// reported again on the next fetch instead of looking unchanged.
func forget(f Fetcher) {
	if r, ok := f.(Resetter); ok {
		r.Reset()
	}
}

// New returns an HTTP fetcher for http(s) URLs and a file fetcher otherwise.
func New(location string, timeout time.Duration) Fetcher {
	if IsURL(location) {
		return NewHTTPSource(location, timeout)
	}
	return NewFileSource(location)
}

func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// DecodeSnapshot parses a state document. Missing fields keep zero values.
func DecodeSnapshot(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode state snapshot: %w", err)
	}
	return &snap, nil
}

// FetchSnapshot fetches and decodes the state snapshot. ErrNotModified is
// passed through unwrapped so callers can keep their last snapshot.
func FetchSnapshot(ctx context.Context, f Fetcher) (*models.Snapshot, error) {
	data, err := f.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrNotModified) {
			return nil, ErrNotModified
		}
		return nil, fmt.Errorf("failed to fetch state from %s: %w", f.Location(), err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		forget(f)
		return nil, err
	}
	return snap, nil
}

// FetchOverride reads the override signal. A missing document means auto.
func FetchOverride(ctx context.Context, f Fetcher) (constants.OverrideMode, error) {
	if f == nil {
		return constants.OverrideAuto, nil
	}
	data, err := f.Fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return constants.OverrideAuto, nil
		}
		return constants.OverrideAuto, fmt.Errorf("failed to fetch override from %s: %w", f.Location(), err)
	}
	var o models.Override
	if err := json.Unmarshal(data, &o); err != nil {
		forget(f)
		return constants.OverrideAuto, fmt.Errorf("failed to decode override: %w", err)
	}
	return nightmode.ParseOverride(o.Mode), nil
}

// FetchQuotes reads a JSON array of quotes; entries may be strings or
// {text, author} objects.
func FetchQuotes(ctx context.Context, f Fetcher) ([]models.Quote, error) {
	data, err := f.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes from %s: %w", f.Location(), err)
	}
	var quotes []models.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		forget(f)
		return nil, fmt.Errorf("failed to decode quotes: %w", err)
	}
	out := quotes[:0]
	for _, q := range quotes {
		if strings.TrimSpace(q.Text) != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

// EncodeOverride renders an override document.
func EncodeOverride(mode constants.OverrideMode) ([]byte, error) {
	return json.MarshalIndent(models.Override{Mode: string(mode)}, "", "  ")
}
