package wind

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Options configures the pipeline for the single tracked station.
type Options struct {
	StationID  string
	TTL        time.Duration
	Normalizer Normalizer
	// Location is the station's time zone; the provider's "today" is taken there.
	Location *time.Location
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Service orchestrates fetch, normalize and cache for today's observations.
type Service struct {
	fetcher Fetcher
	cache   Cache
	opts    Options
	log     *zap.SugaredLogger
}

// NewService creates a new Service.
func NewService(fetcher Fetcher, cache Cache, opts Options, logger *zap.SugaredLogger) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		opts:    opts,
		log:     logger,
	}
}

// Report is today's view handed to the presentation layer.
type Report struct {
	StationID string    `json:"stationId"`
	Date      string    `json:"date"`
	View      string    `json:"view"`
	FetchID   string    `json:"fetchId,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
	Tables
}

// Today returns the current station day key.
func (s *Service) Today() Key {
	return KeyFor(s.opts.StationID, s.opts.Now().In(s.opts.Location))
}

// Series returns today's normalized series, fetching it when the cached one is missing
// or older than the TTL. A failed fetch yields an empty series plus a *FetchError.
func (s *Service) Series(ctx context.Context) (Entry, error) {
	return s.seriesFor(ctx, s.Today())
}

func (s *Service) seriesFor(ctx context.Context, key Key) (Entry, error) {
	entry, err := s.cache.GetOrFetch(ctx, key, s.opts.TTL, func(ctx context.Context) (Series, error) {
		return s.fetchAndNormalize(ctx, key)
	})
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{StationID: key.StationID, Date: key.Date, Err: err}
		}
		s.log.Warnw("observation fetch failed; serving empty series", "key", key.String(), "error", err)
		return Entry{Series: Series{}}, err
	}
	return entry, nil
}

func (s *Service) fetchAndNormalize(ctx context.Context, key Key) (Series, error) {
	s.log.Debugw("fetching observations", "provider", s.fetcher.Name(), "key", key.String())

	raw, err := s.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	series, stats := s.opts.Normalizer.Normalize(raw)
	s.log.Infow("observations normalized",
		"key", key.String(),
		"input", stats.Input,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
	)
	return series, nil
}

// Report builds the view for the requested window of today's series.
func (s *Service) Report(ctx context.Context, w Window) (Report, error) {
	key := s.Today()
	entry, err := s.seriesFor(ctx, key)

	return Report{
		StationID: key.StationID,
		Date:      key.Date,
		View:      w.String(),
		FetchID:   entry.FetchID,
		FetchedAt: entry.FetchedAt,
		Tables:    Tabulate(w.Apply(entry.Series), entry.Series),
	}, err
}

// Distribution returns the direction shares over today's full series.
func (s *Service) Distribution(ctx context.Context) (DistributionRow, error) {
	entry, err := s.Series(ctx)
	return Distribution(entry.Series), err
}

// Invalidate drops today's cached series so the next read refetches.
func (s *Service) Invalidate() {
	key := s.Today()
	s.cache.Invalidate(key)
	s.log.Infow("cache invalidated", "key", key.String())
}

// Refresh invalidates today's entry and fetches it again.
func (s *Service) Refresh(ctx context.Context) (Entry, error) {
	s.Invalidate()
	return s.Series(ctx)
}
