package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vikey-14/pokemon-api/internal/auth/store"
)

// HousekeepingService periodically purges expired refresh-token entries so
// the registry does not grow without bound. Expired entries are already
// rejected on read; this only reclaims the space they occupy.
type HousekeepingService struct {
	Registry store.RefreshTokens
	Logger   *slog.Logger
	Interval time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the background purger. A zero or negative
// interval defaults to 1 hour.
func NewHousekeepingService(registry store.RefreshTokens, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Registry: registry,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to shut it
// down gracefully.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress purge finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// One pass immediately on startup.
	s.purge()

	for {
		select {
		case <-ticker.C:
			s.purge()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) purge() {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}

	if err := s.Registry.DeleteExpired(context.Background(), now); err != nil {
		s.Logger.Error("failed to purge expired refresh tokens", "error", err)
		return
	}
	s.Logger.Debug("purged expired refresh tokens")
}
