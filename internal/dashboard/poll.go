package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/constants"
	"github.com/julianstephens/focusboard/internal/logger"
	"github.com/julianstephens/focusboard/internal/models"
	"github.com/julianstephens/focusboard/internal/source"
)

// PollResult is the outcome of one fetch of the state, override and quotes.
type PollResult struct {
	Seq        uint64
	ID         string
	Snapshot   *models.Snapshot // nil when unchanged or failed
	ReceivedAt time.Time

	Override    constants.OverrideMode
	OverrideSet bool
	Quotes      []models.Quote // nil when unchanged
	Err         error
}

// Poller fetches the documents a dashboard reads.
type Poller struct {
	state    source.Fetcher
	override source.Fetcher
	quotes   source.Fetcher
	now      func() time.Time
}

// NewPoller builds fetchers for the configured sources. Override and
// quotes are optional.
func NewPoller(cfg config.SourceConfig) *Poller {
	p := &Poller{
		state: source.New(cfg.State, cfg.Timeout),
		now:   time.Now,
	}
	if cfg.Override != "" {
		p.override = source.New(cfg.Override, cfg.Timeout)
	}
	if cfg.Quotes != "" {
		p.quotes = source.New(cfg.Quotes, cfg.Timeout)
	}
	return p
}

// NewPollerWithFetchers wires explicit fetchers; nil override or quotes
// fetchers are skipped.
func NewPollerWithFetchers(state, override, quotes source.Fetcher) *Poller {
	return &Poller{state: state, override: override, quotes: quotes, now: time.Now}
}

// StateLocation is where the snapshot is read from.
func (p *Poller) StateLocation() string {
	return p.state.Location()
}

// Poll fetches everything once. It never returns a partially applied
// result: a state failure is reported in Err while override and quote
// results are still carried.
func (p *Poller) Poll(ctx context.Context, seq uint64) PollResult {
	res := PollResult{Seq: seq, ID: uuid.NewString()}

	if p.override != nil {
		mode, err := source.FetchOverride(ctx, p.override)
		switch {
		case errors.Is(err, source.ErrNotModified):
		case err != nil:
			logger.Warn("Failed to read override", "location", p.override.Location(), "err", err)
		default:
			res.Override, res.OverrideSet = mode, true
		}
	}

	if p.quotes != nil {
		quotes, err := source.FetchQuotes(ctx, p.quotes)
		switch {
		case errors.Is(err, source.ErrNotModified):
		case errors.Is(err, source.ErrNotFound):
			logger.Debug("No quotes file", "location", p.quotes.Location())
		case err != nil:
			logger.Warn("Failed to read quotes", "location", p.quotes.Location(), "err", err)
		default:
			res.Quotes = quotes
		}
	}

	snap, err := source.FetchSnapshot(ctx, p.state)
	switch {
	case errors.Is(err, source.ErrNotModified):
		logger.Debug("State unchanged", "seq", seq)
	case err != nil:
		res.Err = err
	default:
		res.Snapshot = snap
		res.ReceivedAt = p.now()
	}
	return res
}
