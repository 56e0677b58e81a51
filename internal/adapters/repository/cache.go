package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/peloton/internal/domain/league"
	"github.com/okian/peloton/pkg/metrics"
)

// Cache memoizes the tables of a Source. It is owned by whoever needs the
// tables; there is no package-level state.
type Cache struct {
	src Source

	mu       sync.Mutex
	tables   *league.Tables
	loadedAt time.Time
}

// NewCache wraps src.
func NewCache(src Source) *Cache { return &Cache{src: src} }

// Get returns the memoized tables, loading them on first use. Concurrent
// callers wait for the same load.
func (c *Cache) Get(ctx context.Context) (*league.Tables, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tables != nil {
		return c.tables, nil
	}
	return c.loadLocked(ctx)
}

// Reload always re-reads the source. On failure the previous tables stay.
func (c *Cache) Reload(ctx context.Context) (*league.Tables, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

// Reset forgets the memoized tables.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.tables = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

// LoadedAt is the time of the last successful load.
func (c *Cache) LoadedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedAt
}

func (c *Cache) loadLocked(ctx context.Context) (*league.Tables, error) {
	start := time.Now()
	t, err := c.src.Load(ctx)
	metrics.RecordDatasetLoadDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordErrorByComponent("repository", "load")
		return nil, err
	}
	c.tables = t
	c.loadedAt = time.Now()
	return t, nil
}
