package schedule

import (
	"sort"
	"sync"
	"time"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
)

type manualJob struct {
	id       int
	interval time.Duration
	next     time.Time
	job      func()
	active   bool
}

// Manual fires jobs only when Advance is called, moving a fake clock through
// each due time in order. Used to drive timer-dependent code deterministically.
type Manual struct {
	mu     sync.Mutex
	clock  *clock.Fake
	jobs   []*manualJob
	nextID int
}

func NewManual(clk *clock.Fake) *Manual {
	return &Manual{clock: clk}
}

func (m *Manual) Schedule(interval time.Duration, job func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	if interval <= 0 {
		return func() {}
	}
	j := &manualJob{
		id:       m.nextID,
		interval: interval,
		next:     m.clock.Now().Add(interval),
		job:      job,
		active:   true,
	}
	m.nextID++
	m.jobs = append(m.jobs, j)

	return func() {
		m.mu.Lock()
		j.active = false
		m.mu.Unlock()
	}
}

// Active reports how many jobs are still scheduled.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.jobs {
		if j.active {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due jobs along the way.
func (m *Manual) Advance(d time.Duration) {
	target := m.clock.Now().Add(d)
	for {
		job, at, ok := m.popDue(target)
		if !ok {
			break
		}
		m.clock.Set(at)
		job()
	}
	m.clock.Set(target)
}

// popDue returns the earliest job due at or before target and reschedules it.
func (m *Manual) popDue(target time.Time) (func(), time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*manualJob
	for _, j := range m.jobs {
		if j.active && !j.next.After(target) {
			due = append(due, j)
		}
	}
	if len(due) == 0 {
		return nil, time.Time{}, false
	}
	sort.Slice(due, func(a, b int) bool {
		if due[a].next.Equal(due[b].next) {
			return due[a].id < due[b].id
		}
		return due[a].next.Before(due[b].next)
	})
	j := due[0]
	at := j.next
	j.next = j.next.Add(j.interval)
	return j.job, at, true
}
