package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus(4, zap.NewNop())
	bus.DashboardHook([]dashboard.Metric{dashboard.MetricUsers})
	bus.FeedHook("market")

	assert.Equal(t, DashboardAdvancedMsg{Metrics: []dashboard.Metric{dashboard.MetricUsers}}, bus.Listen()())
	assert.Equal(t, FeedTickMsg{Feed: "market"}, bus.Listen()())

	sent, dropped := bus.Stats()
	assert.EqualValues(t, 2, sent)
	assert.EqualValues(t, 0, dropped)
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus(1, zap.NewNop())
	bus.FeedHook("market")
	bus.FeedHook("network")
	bus.FeedHook("activity")

	sent, dropped := bus.Stats()
	assert.EqualValues(t, 1, sent)
	assert.EqualValues(t, 2, dropped)
	assert.Equal(t, FeedTickMsg{Feed: "market"}, bus.Listen()())
}

func TestBusCloseReleasesListen(t *testing.T) {
	bus := NewBus(4, zap.NewNop())

	got := make(chan any, 1)
	go func() { got <- bus.Listen()() }()

	require.NoError(t, bus.Close())
	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("Listen still blocked after Close")
	}

	require.NoError(t, bus.Close(), "second close is a no-op")
	bus.FeedHook("market")
	sent, dropped := bus.Stats()
	assert.EqualValues(t, 0, sent)
	assert.EqualValues(t, 0, dropped)
	assert.Nil(t, bus.Listen()())
}

func TestRouteNames(t *testing.T) {
	assert.Equal(t, "calculator", RouteCalculator.String())
	assert.Equal(t, "unknown", Route(42).String())
	assert.Equal(t, RouterMsg{To: RouteLogs}, Navigate(RouteLogs)())
}

func TestContextualHelp(t *testing.T) {
	k := DefaultKeyMap()
	assert.Contains(t, k.ContextualHelp(RouteCalculator), k.Export)
	assert.Contains(t, k.ContextualHelp(RouteTestimonials), k.Submit)
	assert.Equal(t, []string{"esc", "ctrl+c"}, helpKeys(k.ContextualHelp(RouteMarket)))
}

func helpKeys(bindings []key.Binding) []string {
	out := make([]string, len(bindings))
	for i, b := range bindings {
		out[i] = b.Help().Key
	}
	return out
}
