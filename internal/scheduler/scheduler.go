package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Evictor removes widget sessions idle for longer than maxIdle.
type Evictor interface {
	EvictIdle(maxIdle time.Duration) int
}

// Scheduler periodically unmounts abandoned widget sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	evictor   Evictor
	interval  time.Duration
	maxIdle   time.Duration
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler.
func New(evictor Evictor, interval, maxIdle time.Duration, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		evictor:   evictor,
		interval:  interval,
		maxIdle:   maxIdle,
		logger:    logger,
	}
}

// Start schedules the eviction job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.maxIdle <= 0 {
		s.logger.Info("scheduler: session eviction disabled")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) sweep() {
	n := s.evictor.EvictIdle(s.maxIdle)
	s.logger.Debugw("scheduler: session sweep completed", "evicted", n)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
