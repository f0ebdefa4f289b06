package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

//go:generate mockgen -source=loader.go -destination=../mocks/catalog/mock_row_source.go -package=mock_catalog RowSource

// RowSource yields the header and raw rows of a course spreadsheet.
type RowSource interface {
	FetchSheet(ctx context.Context) (Sheet, error)
}

// LoadResult is a catalog together with when its rows were fetched. Stale is
// set when a refresh failed and a previously built catalog is served instead;
// StaleReason holds the refresh error.
type LoadResult struct {
	Catalog     *Catalog
	FetchedAt   time.Time
	Stale       bool
	StaleReason error
}

type cacheEntry struct {
	catalog   *Catalog
	fetchedAt time.Time
}

// Loader fetches and builds catalogs, caching each module filter for a TTL.
// It is safe for concurrent use.
type Loader struct {
	source  RowSource
	builder *Builder
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewLoader(source RowSource, builder *Builder, ttl time.Duration) *Loader {
	return &Loader{
		source:  source,
		builder: builder,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// SetClock replaces the time source used for cache expiry.
func (l *Loader) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Load returns the catalog for moduleFilter ("" for every module). A fresh
// cached catalog is returned without fetching. When fetching or building fails
// the last good catalog for the same filter is returned as stale; without one
// the error is returned.
func (l *Loader) Load(ctx context.Context, moduleFilter string) (*LoadResult, error) {
	key := ModuleID(moduleFilter)

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, cached := l.entries[key]
	if cached && l.ttl > 0 && l.now().Sub(entry.fetchedAt) < l.ttl {
		return &LoadResult{Catalog: entry.catalog, FetchedAt: entry.fetchedAt}, nil
	}

	catalog, err := l.build(ctx, moduleFilter)
	if err != nil {
		if !cached {
			return nil, err
		}
		slog.Default().Warn("serving cached catalog after a failed refresh",
			slog.String("module", moduleFilter),
			slog.Time("fetchedAt", entry.fetchedAt),
			slog.Any("error", err),
		)
		return &LoadResult{
			Catalog:     entry.catalog,
			FetchedAt:   entry.fetchedAt,
			Stale:       true,
			StaleReason: err,
		}, nil
	}

	entry = cacheEntry{catalog: catalog, fetchedAt: l.now()}
	l.entries[key] = entry
	return &LoadResult{Catalog: entry.catalog, FetchedAt: entry.fetchedAt}, nil
}

// Invalidate forces the next Load of every filter to fetch again. Cached
// catalogs stay available as a fallback.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, entry := range l.entries {
		entry.fetchedAt = time.Time{}
		l.entries[key] = entry
	}
}

func (l *Loader) build(ctx context.Context, moduleFilter string) (*Catalog, error) {
	sheet, err := l.source.FetchSheet(ctx)
	if err != nil {
		return nil, fmt.Errorf("source.FetchSheet > %w", err)
	}
	catalog, err := l.builder.BuildSheet(sheet, moduleFilter)
	if err != nil {
		return nil, fmt.Errorf("builder.BuildSheet > %w", err)
	}
	return catalog, nil
}
