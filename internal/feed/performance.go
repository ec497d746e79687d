// internal/feed/performance.go
package feed

import (
	"sync"
	"time"

	"github.com/rovshanmuradov/rogue-runner/internal/random"
)

const DefaultPerformanceInterval = 10 * time.Second

// PeriodResult is the profit and percentage change over one period.
type PeriodResult struct {
	Profit float64 `json:"profit"`
	Change float64 `json:"change"`
}

type PerformanceSnapshot struct {
	Daily   PeriodResult `json:"daily"`
	Weekly  PeriodResult `json:"weekly"`
	Monthly PeriodResult `json:"monthly"`
}

// Longer periods drift less.
var performanceDrift = [3]struct{ profit, change float64 }{
	{0.01, 0.1},
	{0.0075, 0.075},
	{0.005, 0.05},
}

type Performance struct {
	mu       sync.RWMutex
	snap     PerformanceSnapshot
	rnd      random.Source
	interval time.Duration
}

func NewPerformance(rnd random.Source, interval time.Duration) *Performance {
	if interval <= 0 {
		interval = DefaultPerformanceInterval
	}
	return &Performance{
		snap: PerformanceSnapshot{
			Daily:   PeriodResult{Profit: 1250, Change: 3.2},
			Weekly:  PeriodResult{Profit: 8900, Change: 12.5},
			Monthly: PeriodResult{Profit: 35600, Change: 28.7},
		},
		rnd:      rnd,
		interval: interval,
	}
}

func (p *Performance) Name() string            { return "performance" }
func (p *Performance) Interval() time.Duration { return p.interval }

func (p *Performance) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	periods := []*PeriodResult{&p.snap.Daily, &p.snap.Weekly, &p.snap.Monthly}
	for i, r := range periods {
		r.Profit *= 1 + random.Jitter(p.rnd, performanceDrift[i].profit)
		r.Change += random.Jitter(p.rnd, performanceDrift[i].change)
	}
}

func (p *Performance) Snapshot() PerformanceSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}
