package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/wind-station/internal/wind"
)

// Warmer is the part of the wind service the scheduler drives.
type Warmer interface {
	Series(ctx context.Context) (wind.Entry, error)
}

// Scheduler periodically reads today's series so the cache is warm before clients ask.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Warmer
	interval  time.Duration
	timeout   time.Duration
	log       *zap.SugaredLogger
}

// New creates a new Scheduler. Each run is bounded by timeout.
func New(service Warmer, interval, timeout time.Duration, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		timeout:   timeout,
		log:       logger,
	}
}

// Start schedules the warm-up job and starts the underlying scheduler.
// A non-positive interval disables it.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("scheduler: refresh interval is zero; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.run); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infow("scheduler started", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	entry, err := s.service.Series(ctx)
	if err != nil {
		s.log.Warnw("scheduler: warm-up fetch failed", "error", err)
		return
	}
	s.log.Debugw("scheduler: cache warm", "fetchId", entry.FetchID, "samples", len(entry.Series))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
