package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
)

func TestTickerRunsAndStops(t *testing.T) {
	s := NewTicker(zap.NewNop())
	var runs atomic.Int32

	s.Schedule(5*time.Millisecond, func() { runs.Add(1) })

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)

	s.Stop()
	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop")

	// Scheduling after Stop is a no-op.
	cancel := s.Schedule(time.Millisecond, func() { runs.Add(1) })
	cancel()
}

func TestTickerCancelIsIdempotent(t *testing.T) {
	s := NewTicker(zap.NewNop())
	defer s.Stop()

	var runs atomic.Int32
	cancel := s.Schedule(time.Millisecond, func() { runs.Add(1) })
	cancel()
	cancel()
}

func TestTickerRecoversPanics(t *testing.T) {
	s := NewTicker(zap.NewNop())
	defer s.Stop()

	var runs atomic.Int32
	s.Schedule(2*time.Millisecond, func() {
		runs.Add(1)
		panic("boom")
	})
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestManualAdvanceFiresInOrder(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFake(start)
	m := NewManual(clk)

	var fired []string
	m.Schedule(time.Minute, func() { fired = append(fired, "minute@"+clk.Now().Sub(start).String()) })
	cancel := m.Schedule(90*time.Second, func() { fired = append(fired, "ninety@"+clk.Now().Sub(start).String()) })

	m.Advance(3 * time.Minute)
	assert.Equal(t, []string{
		"minute@1m0s",
		"ninety@1m30s",
		"minute@2m0s",
		"minute@3m0s",
		"ninety@3m0s",
	}, fired)
	assert.Equal(t, start.Add(3*time.Minute), clk.Now())

	cancel()
	assert.Equal(t, 1, m.Active())
	fired = nil
	m.Advance(90 * time.Second)
	assert.Equal(t, []string{"minute@4m0s"}, fired)
}
