// internal/feed/feed.go
package feed

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/schedule"
)

// Feed is a cosmetic ticker that owns its own snapshot.
type Feed interface {
	Name() string
	Interval() time.Duration
	Tick()
}

// Runner schedules a set of feeds independently of each other.
type Runner struct {
	scheduler schedule.Scheduler
	logger    *zap.Logger
	onTick    func(name string)

	mu      sync.Mutex
	cancels []schedule.CancelFunc
}

// NewRunner creates a runner. onTick, if set, is called after every feed tick.
func NewRunner(scheduler schedule.Scheduler, logger *zap.Logger, onTick func(name string)) *Runner {
	return &Runner{scheduler: scheduler, logger: logger, onTick: onTick}
}

// Start schedules every feed at its own interval.
func (r *Runner) Start(feeds ...Feed) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range feeds {
		r.cancels = append(r.cancels, r.scheduler.Schedule(f.Interval(), func() {
			f.Tick()
			if r.onTick != nil {
				r.onTick(f.Name())
			}
		}))
		r.logger.Debug("Feed scheduled",
			zap.String("feed", f.Name()),
			zap.Duration("interval", f.Interval()))
	}
}

// Stop cancels all scheduled feeds.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancels := r.cancels
	r.cancels = nil
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

func (r *Runner) Close() error {
	r.Stop()
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
