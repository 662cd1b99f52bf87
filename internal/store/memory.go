package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/i474232898/wind-station/internal/wind"
)

// SeriesCache is a concurrency-safe in-memory memoization of fetch+normalize results,
// keyed by station day. Entries are replaced wholesale, never edited.
type SeriesCache struct {
	mu sync.RWMutex

	// key: station day, value: last successful fetch
	data map[wind.Key]wind.Entry

	now func() time.Time
	log *zap.SugaredLogger

	hits    *atomic.Int64
	misses  *atomic.Int64
	fetches *atomic.Int64
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Fetches int64 `json:"fetches"`
	Entries int   `json:"entries"`
}

// NewSeriesCache creates an empty cache. A nil clock means time.Now.
func NewSeriesCache(now func() time.Time, logger *zap.SugaredLogger) *SeriesCache {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SeriesCache{
		data:    make(map[wind.Key]wind.Entry),
		now:     now,
		log:     logger,
		hits:    atomic.NewInt64(0),
		misses:  atomic.NewInt64(0),
		fetches: atomic.NewInt64(0),
	}
}

// GetOrFetch serves the stored series for key while it is younger than ttl. Otherwise it
// calls fetch and stores the result under a fresh timestamp and fetch id. Failed fetches
// are returned as-is and leave the cache untouched.
//
// Concurrent misses on the same key may each fetch; the last one to finish wins.
func (c *SeriesCache) GetOrFetch(ctx context.Context, key wind.Key, ttl time.Duration, fetch wind.FetchFunc) (wind.Entry, error) {
	if entry, ok := c.fresh(key, ttl); ok {
		c.hits.Inc()
		c.log.Debugw("cache hit", "key", key.String(), "fetchId", entry.FetchID)
		return entry, nil
	}
	c.misses.Inc()

	series, err := fetch(ctx)
	c.fetches.Inc()
	if err != nil {
		return wind.Entry{}, err
	}
	if series == nil {
		series = wind.Series{}
	}

	entry := wind.Entry{
		Series:    series,
		FetchedAt: c.now(),
		FetchID:   uuid.NewString(),
	}
	c.store(key, entry, ttl)
	c.log.Debugw("cache filled", "key", key.String(), "fetchId", entry.FetchID, "samples", len(series))

	entry.Series = entry.Series.Clone()
	return entry, nil
}

func (c *SeriesCache) fresh(key wind.Key, ttl time.Duration) (wind.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().Sub(entry.FetchedAt) >= ttl {
		return wind.Entry{}, false
	}
	entry.Series = entry.Series.Clone()
	return entry, true
}

func (c *SeriesCache) store(key wind.Key, entry wind.Entry, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = entry

	// Enforce retention by age: stale entries for other days are never served again.
	cutoff := c.now().Add(-ttl)
	for k, e := range c.data {
		if k != key && e.FetchedAt.Before(cutoff) {
			delete(c.data, k)
		}
	}
}

// Invalidate clears the entry for key, forcing the next GetOrFetch to refetch.
func (c *SeriesCache) Invalidate(key wind.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Stats reports hit, miss and fetch counters.
func (c *SeriesCache) Stats() Stats {
	c.mu.RLock()
	n := len(c.data)
	c.mu.RUnlock()

	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Fetches: c.fetches.Load(),
		Entries: n,
	}
}
