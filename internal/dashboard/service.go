package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/schedule"
)

// DefaultTickInterval is how often the store is asked to update.
const DefaultTickInterval = time.Minute

// Service drives a Store from a Scheduler.
type Service struct {
	store     *Store
	scheduler schedule.Scheduler
	interval  time.Duration
	logger    *zap.Logger
	onAdvance func([]Metric)

	mu     sync.Mutex
	cancel schedule.CancelFunc
}

// NewService wires a store to a scheduler. onAdvance, if set, is called after
// every tick that advanced something.
func NewService(store *Store, scheduler schedule.Scheduler, interval time.Duration, logger *zap.Logger, onAdvance func([]Metric)) *Service {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Service{
		store:     store,
		scheduler: scheduler,
		interval:  interval,
		logger:    logger,
		onAdvance: onAdvance,
	}
}

// Start runs one tick immediately and then every interval until Stop.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	s.tick(ctx)
	s.cancel = s.scheduler.Schedule(s.interval, func() { s.tick(ctx) })
	s.logger.Info("Dashboard simulation started", zap.Duration("interval", s.interval))
}

func (s *Service) tick(ctx context.Context) {
	advanced := s.store.Tick(ctx)
	if len(advanced) > 0 && s.onAdvance != nil {
		s.onAdvance(advanced)
	}
}

// Stop cancels the scheduled ticks.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Close lets the service be registered with a shutdown handler.
func (s *Service) Close() error {
	s.Stop()
	return nil
}

func (s *Service) Store() *Store { return s.store }
