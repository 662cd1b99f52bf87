package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/wind-station/internal/wind"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingFetch struct {
	mu     sync.Mutex
	calls  int
	series wind.Series
	err    error
}

func (f *countingFetch) fetch(context.Context) (wind.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.series, f.err
}

func (f *countingFetch) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var (
	today    = wind.Key{StationID: "IKRNTENU3", Date: "20240601"}
	tomorrow = wind.Key{StationID: "IKRNTENU3", Date: "20240602"}
)

func newTestCache() (*SeriesCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewSeriesCache(clock.Now, nil), clock
}

func sampleSeries() wind.Series {
	return wind.Series{
		wind.NewSample("07:00", 8, 12, 200),
		wind.NewSample("07:05", 10, 15, 5),
	}
}

func TestGetOrFetchWithinTTLFetchesOnce(t *testing.T) {
	cache, clock := newTestCache()
	src := &countingFetch{series: sampleSeries()}
	ctx := context.Background()

	first, err := cache.GetOrFetch(ctx, today, 10*time.Minute, src.fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(9 * time.Minute)
	second, err := cache.GetOrFetch(ctx, today, 10*time.Minute, src.fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.count() != 1 {
		t.Fatalf("expected exactly one fetch, got %d", src.count())
	}
	if first.FetchID == "" || first.FetchID != second.FetchID {
		t.Fatalf("expected the same entry to be served, got %q and %q", first.FetchID, second.FetchID)
	}
	if len(second.Series) != 2 {
		t.Fatalf("expected cached series, got %+v", second.Series)
	}
}

func TestGetOrFetchAfterTTLRefetches(t *testing.T) {
	cache, clock := newTestCache()
	src := &countingFetch{series: sampleSeries()}
	ctx := context.Background()

	first, _ := cache.GetOrFetch(ctx, today, 10*time.Minute, src.fetch)
	clock.Advance(10 * time.Minute)
	second, _ := cache.GetOrFetch(ctx, today, 10*time.Minute, src.fetch)

	if src.count() != 2 {
		t.Fatalf("expected a second fetch after expiry, got %d", src.count())
	}
	if first.FetchID == second.FetchID {
		t.Fatal("expected a new fetch id after refetch")
	}
	if !second.FetchedAt.Equal(clock.Now()) {
		t.Fatalf("expected fresh timestamp, got %v", second.FetchedAt)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	cache, _ := newTestCache()
	src := &countingFetch{series: sampleSeries()}
	ctx := context.Background()

	_, _ = cache.GetOrFetch(ctx, today, time.Hour, src.fetch)
	cache.Invalidate(today)
	_, _ = cache.GetOrFetch(ctx, today, time.Hour, src.fetch)

	if src.count() != 2 {
		t.Fatalf("expected invalidate to force a refetch, got %d fetches", src.count())
	}
}

func TestFailedFetchIsNotCached(t *testing.T) {
	cache, _ := newTestCache()
	boom := errors.New("boom")
	src := &countingFetch{err: boom}
	ctx := context.Background()

	if _, err := cache.GetOrFetch(ctx, today, time.Hour, src.fetch); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	src.err = nil
	src.series = sampleSeries()
	entry, err := cache.GetOrFetch(ctx, today, time.Hour, src.fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.count() != 2 || len(entry.Series) != 2 {
		t.Fatalf("expected retry on next call, got %d fetches and %+v", src.count(), entry.Series)
	}
}

func TestEmptySeriesIsCached(t *testing.T) {
	cache, _ := newTestCache()
	src := &countingFetch{}
	ctx := context.Background()

	entry, err := cache.GetOrFetch(ctx, today, time.Hour, src.fetch)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Series == nil || len(entry.Series) != 0 {
		t.Fatalf("expected empty non-nil series, got %#v", entry.Series)
	}
	_, _ = cache.GetOrFetch(ctx, today, time.Hour, src.fetch)
	if src.count() != 1 {
		t.Fatalf("expected empty day to be memoized, got %d fetches", src.count())
	}
}

func TestCallersCannotMutateCachedSeries(t *testing.T) {
	cache, _ := newTestCache()
	src := &countingFetch{series: sampleSeries()}
	ctx := context.Background()

	first, _ := cache.GetOrFetch(ctx, today, time.Hour, src.fetch)
	first.Series[0] = wind.NewSample("00:00", 99, 99, 90)

	second, _ := cache.GetOrFetch(ctx, today, time.Hour, src.fetch)
	if second.Series[0].Time != "07:00" {
		t.Fatalf("cached series was mutated through a returned copy: %+v", second.Series[0])
	}
}

func TestKeysAreIndependentAndStaleDaysSwept(t *testing.T) {
	cache, clock := newTestCache()
	src := &countingFetch{series: sampleSeries()}
	ctx := context.Background()

	_, _ = cache.GetOrFetch(ctx, today, 10*time.Minute, src.fetch)
	clock.Advance(11 * time.Minute)
	_, _ = cache.GetOrFetch(ctx, tomorrow, 10*time.Minute, src.fetch)

	if src.count() != 2 {
		t.Fatalf("expected one fetch per key, got %d", src.count())
	}
	if st := cache.Stats(); st.Entries != 1 {
		t.Fatalf("expected the expired day to be swept, got %d entries", st.Entries)
	}
}

func TestStatsCountHitsAndMisses(t *testing.T) {
	cache, _ := newTestCache()
	src := &countingFetch{series: sampleSeries()}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _ = cache.GetOrFetch(ctx, today, time.Hour, src.fetch)
	}

	st := cache.Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Fetches != 1 || st.Entries != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestConcurrentReadersSeeWholeSeries(t *testing.T) {
	cache, clock := newTestCache()
	src := &countingFetch{series: sampleSeries()}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%8 == 0 {
				clock.Advance(time.Minute)
			}
			entry, err := cache.GetOrFetch(ctx, today, 5*time.Minute, src.fetch)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if len(entry.Series) != 2 {
				t.Errorf("observed partial series: %+v", entry.Series)
			}
		}(i)
	}
	wg.Wait()
}
