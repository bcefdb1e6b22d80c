package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pmboard/internal/domain"
	"pmboard/internal/logging"
	"pmboard/internal/ports"
)

// Board owns the shared record snapshot. The chart and graph are always
// derived from the latest successful fetch; a failed fetch leaves the
// previous snapshot in place.
type Board struct {
	source   ports.RecordSource
	analyzer ports.ProjectAnalyzer
	cache    ports.SnapshotCache
	guard    *Guard
	now      func() time.Time

	mu   sync.RWMutex
	snap domain.Snapshot
}

// BoardOption configures a Board
type BoardOption func(*Board)

// WithCache saves every fetched snapshot to cache
func WithCache(cache ports.SnapshotCache) BoardOption {
	return func(b *Board) { b.cache = cache }
}

// WithAnalyzer enables Analyze
func WithAnalyzer(analyzer ports.ProjectAnalyzer) BoardOption {
	return func(b *Board) { b.analyzer = analyzer }
}

// WithGuard shares an in-flight guard with other components
func WithGuard(g *Guard) BoardOption {
	return func(b *Board) { b.guard = g }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) { b.now = now }
}

// NewBoard creates an empty Board reading from source
func NewBoard(source ports.RecordSource, opts ...BoardOption) *Board {
	b := &Board{
		source: source,
		guard:  NewGuard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Guard returns the in-flight guard the board uses
func (b *Board) Guard() *Guard {
	return b.guard
}

// Now returns the board's current time
func (b *Board) Now() time.Time {
	return b.now()
}

// Refresh performs a full fetch and replaces the snapshot wholesale.
// On failure the error is logged and returned, and the previous snapshot
// is kept.
func (b *Board) Refresh(ctx context.Context) error {
	release, err := b.guard.Begin(ActionFetch)
	if err != nil {
		return err
	}
	defer release()
	return b.fetch(ctx)
}

// Reload is Refresh for callers that must see data newer than their own
// write: it waits for an outstanding fetch, which may predate the write,
// and then fetches again.
func (b *Board) Reload(ctx context.Context) error {
	release, err := b.guard.Wait(ctx, ActionFetch)
	if err != nil {
		return err
	}
	defer release()
	return b.fetch(ctx)
}

func (b *Board) fetch(ctx context.Context) error {
	records, err := b.source.FetchRecords(ctx)
	if err != nil {
		logging.LogError(err, "fetch records")
		return fmt.Errorf("failed to fetch records: %w", err)
	}

	snap := domain.Snapshot{Records: records, FetchedAt: b.now()}
	b.mu.Lock()
	b.snap = snap
	b.mu.Unlock()
	logging.LogInfo("fetched %d records", len(records))

	if b.cache != nil {
		if err := b.cache.SaveSnapshot(ctx, snap); err != nil {
			logging.LogError(err, "save snapshot")
		}
	}
	return nil
}

// LoadCached primes the board from the snapshot cache. It reports whether a
// cached snapshot was found.
func (b *Board) LoadCached(ctx context.Context) (bool, error) {
	if b.cache == nil {
		return false, nil
	}
	snap, err := b.cache.LoadSnapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load cached snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	b.mu.Lock()
	b.snap = *snap
	b.mu.Unlock()
	logging.LogDebug("loaded %d cached records from %s", len(snap.Records), snap.FetchedAt.Format(time.RFC3339))
	return true, nil
}

// Snapshot returns a copy of the current snapshot
func (b *Board) Snapshot() domain.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return domain.Snapshot{
		Records:   domain.CloneRecords(b.snap.Records),
		FetchedAt: b.snap.FetchedAt,
	}
}

// Records returns a copy of the current records
func (b *Board) Records() []domain.TaskRecord {
	return b.Snapshot().Records
}

// Timeline builds the chart from the current snapshot
func (b *Board) Timeline() *domain.Timeline {
	return domain.BuildTimeline(b.Records(), b.now())
}

// Graph builds the relationship graph from the current snapshot
func (b *Board) Graph() *domain.Graph {
	return domain.BuildGraph(b.Records())
}

// ProjectRecords returns the records whose project name matches, in order
func (b *Board) ProjectRecords(projectName string) []domain.TaskRecord {
	var out []domain.TaskRecord
	for _, rec := range b.Records() {
		if rec.ProjectName == projectName {
			out = append(out, rec)
		}
	}
	return out
}

// Analyze requests the analysis text for one project
func (b *Board) Analyze(ctx context.Context, projectName string) (string, error) {
	if err := ValidateRequired("projectName", projectName); err != nil {
		return "", err
	}
	if b.analyzer == nil {
		return "", fmt.Errorf("analysis is not configured")
	}

	var text string
	err := b.guard.Do(ActionAnalyze, func() error {
		var err error
		text, err = b.analyzer.AnalyzeProject(ctx, projectName)
		if err != nil {
			logging.LogError(err, "analyze "+projectName)
			return fmt.Errorf("failed to analyze %s: %w", projectName, err)
		}
		return nil
	})
	return text, err
}
