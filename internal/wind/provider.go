package wind

import (
	"context"
	"time"
)

// Fetcher abstracts the observation provider (weather.com PWS history).
type Fetcher interface {
	Name() string
	// Fetch performs one provider call for the given station day. Failures are *FetchError.
	Fetch(ctx context.Context, key Key) ([]RawObservation, error)
}

// Entry is a cached fetch+normalize result.
type Entry struct {
	Series    Series
	FetchedAt time.Time
	FetchID   string
}

// FetchFunc produces a fresh entry on a cache miss.
type FetchFunc func(ctx context.Context) (Series, error)

// Cache is the contract the in-memory series cache must satisfy.
type Cache interface {
	GetOrFetch(ctx context.Context, key Key, ttl time.Duration, fetch FetchFunc) (Entry, error)
	Invalidate(key Key)
}
