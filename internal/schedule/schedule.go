// internal/schedule/schedule.go
package schedule

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CancelFunc stops a scheduled job. It is safe to call more than once.
type CancelFunc func()

// Scheduler runs jobs at a fixed interval until cancelled.
type Scheduler interface {
	Schedule(interval time.Duration, job func()) CancelFunc
}

// Ticker is a Scheduler backed by time.Ticker, one goroutine per job.
type Ticker struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	cancels []CancelFunc
	stopped bool
	logger  *zap.Logger
}

func NewTicker(logger *zap.Logger) *Ticker {
	return &Ticker{logger: logger}
}

// Schedule starts job every interval. A non-positive interval is rejected and
// returns a no-op cancel.
func (t *Ticker) Schedule(interval time.Duration, job func()) CancelFunc {
	t.mu.Lock()
	defer t.mu.Unlock()

	if interval <= 0 || t.stopped {
		t.logger.Warn("Job not scheduled",
			zap.Duration("interval", interval),
			zap.Bool("stopped", t.stopped))
		return func() {}
	}

	done := make(chan struct{})
	var once sync.Once
	cancel := func() { once.Do(func() { close(done) }) }

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.run(job)
			case <-done:
				return
			}
		}
	}()

	t.cancels = append(t.cancels, cancel)
	return cancel
}

func (t *Ticker) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Scheduled job panicked", zap.Any("panic", r))
		}
	}()
	job()
}

// Stop cancels every job and waits for in-flight runs to return.
func (t *Ticker) Stop() {
	t.mu.Lock()
	t.stopped = true
	cancels := t.cancels
	t.cancels = nil
	t.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	t.wg.Wait()
}
