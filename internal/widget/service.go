package widget

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-widget/internal/geo"
	"github.com/i474232898/weather-widget/internal/weather"
)

// Store keeps mounted controllers by session id.
type Store interface {
	Add(c *Controller) (string, error)
	Get(id string) (*Controller, error)
	Remove(id string) error
	Sweep(maxIdle time.Duration) int
}

// Service mounts and unmounts widget sessions.
type Service struct {
	store    Store
	provider weather.Provider
	home     geo.Locator
	logger   *zap.SugaredLogger
}

// NewService creates a new Service. home may be nil when no server-side
// location is configured.
func NewService(store Store, provider weather.Provider, home geo.Locator, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		store:    store,
		provider: provider,
		home:     home,
		logger:   logger,
	}
}

// HomeLocator returns the server-side locator, or nil.
func (s *Service) HomeLocator() geo.Locator {
	return s.home
}

// Mount creates a widget session and runs its initial location lookup.
// A nil locator mounts a widget without geolocation.
func (s *Service) Mount(ctx context.Context, locator geo.Locator) (string, Snapshot, error) {
	c := New(s.provider, locator, WithLogger(s.logger))

	id, err := s.store.Add(c)
	if err != nil {
		c.Close()
		return "", Snapshot{}, fmt.Errorf("mount widget: %w", err)
	}

	s.logger.Debugw("widget mounted", "session", id, "geolocation", locator != nil)
	return id, c.Initialize(ctx), nil
}

// Session returns the controller of a mounted widget.
func (s *Service) Session(id string) (*Controller, error) {
	return s.store.Get(id)
}

// Unmount closes and forgets a widget session.
func (s *Service) Unmount(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	s.logger.Debugw("widget unmounted", "session", id)
	return nil
}

// EvictIdle unmounts sessions untouched for longer than maxIdle.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	n := s.store.Sweep(maxIdle)
	if n > 0 {
		s.logger.Infow("evicted idle widget sessions", "count", n, "maxIdle", maxIdle)
	}
	return n
}
