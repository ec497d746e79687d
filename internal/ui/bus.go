package ui

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
)

const defaultBusSize = 256

// Bus carries updates from background services into the program without
// ever blocking the sender. Updates that do not fit are dropped and counted.
type Bus struct {
	ch        chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
	sent      atomic.Uint64
	dropped   atomic.Uint64
	logger    *zap.Logger
}

func NewBus(size int, logger *zap.Logger) *Bus {
	if size <= 0 {
		size = defaultBusSize
	}
	return &Bus{
		ch:     make(chan tea.Msg, size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send enqueues msg or drops it when the bus is full. Sends after Close are
// discarded.
func (b *Bus) Send(msg tea.Msg) {
	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.ch <- msg:
		b.sent.Add(1)
	default:
		if b.dropped.Add(1)%100 == 1 {
			b.logger.Debug("UI bus full, dropping updates", zap.Uint64("dropped", b.dropped.Load()))
		}
	}
}

// Listen waits for the next message. Re-issue it after every delivery. A
// pending Listen returns nil once the bus is closed.
func (b *Bus) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}

// Close releases every pending Listen. It is safe to call more than once.
func (b *Bus) Close() error {
	b.closeOnce.Do(func() { close(b.done) })
	return nil
}

// Stats returns how many updates were delivered and dropped.
func (b *Bus) Stats() (sent, dropped uint64) {
	return b.sent.Load(), b.dropped.Load()
}

// DashboardHook adapts the bus to a dashboard advance callback.
func (b *Bus) DashboardHook(metrics []dashboard.Metric) {
	b.Send(DashboardAdvancedMsg{Metrics: metrics})
}

// FeedHook adapts the bus to a feed tick callback.
func (b *Bus) FeedHook(name string) {
	b.Send(FeedTickMsg{Feed: name})
}
