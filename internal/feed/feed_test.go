package feed

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/random"
	"github.com/rovshanmuradov/rogue-runner/internal/schedule"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestMarketTick(t *testing.T) {
	// draws per pair: price, change, volume; then sentiment
	m := NewMarket(random.NewSequence(1.0, 0.0, 0.5), 0)
	assert.Equal(t, DefaultMarketInterval, m.Interval())

	before := m.Snapshot()
	assert.Equal(t, Bullish, before.Sentiment)
	assert.Equal(t, 1.65e12, before.MarketCap)
	require.Len(t, before.Pairs, 3)

	m.Tick()
	after := m.Snapshot()
	assert.InDelta(t, 2680.30*1.01, after.Pairs[0].Price, 1e-9)
	assert.InDelta(t, -1.23-0.2, after.Pairs[0].Change24h, 1e-9)
	assert.InDelta(t, 890000, after.Pairs[0].Volume, 1e-6)

	// the snapshot taken before the tick is unaffected
	assert.Equal(t, 2680.30, before.Pairs[0].Price)
}

func TestMarketSentiment(t *testing.T) {
	cases := []struct {
		draws []float64
		want  Sentiment
	}{
		{[]float64{0.8}, Bullish},
		{[]float64{0.5, 0.5}, Neutral},
		{[]float64{0.5, 0.1}, Bearish},
	}
	for _, tc := range cases {
		m := NewMarket(random.NewSequence(tc.draws...), time.Second)
		assert.Equal(t, tc.want, m.drawSentiment())
	}
}

func TestMarketStaysPositive(t *testing.T) {
	m := NewMarket(random.New(3), time.Second)
	for i := 0; i < 1000; i++ {
		m.Tick()
	}
	for _, p := range m.Snapshot().Pairs {
		assert.Greater(t, p.Price, 0.0, p.Symbol)
		assert.Greater(t, p.Volume, 0.0, p.Symbol)
	}
}

func TestNetworkClamps(t *testing.T) {
	n := NewNetwork(random.NewSequence(1.0), 0)
	assert.Equal(t, DefaultNetworkInterval, n.Interval())

	for i := 0; i < 50; i++ {
		n.Tick()
	}
	s := n.Snapshot()
	assert.Equal(t, 100.0, s.Uptime)
	assert.Equal(t, 0.7, roundTo(s.ResponseTime, 2))
	assert.Equal(t, 30.0, s.ServerLoad)
	assert.Equal(t, 125000+50*14, s.APICalls)

	low := NewNetwork(random.NewSequence(0.0), 0)
	for i := 0; i < 200; i++ {
		low.Tick()
	}
	ls := low.Snapshot()
	assert.Equal(t, 99.5, ls.Uptime)
	assert.Equal(t, 0.1, ls.ResponseTime)
	assert.Equal(t, 5.0, ls.ServerLoad)
	assert.Equal(t, 125000+200*5, ls.APICalls)
	assert.Less(t, ls.ActiveConnections, 4200)
}

func roundTo(v float64, places int) float64 {
	p := 1.0
	for i := 0; i < places; i++ {
		p *= 10
	}
	return float64(int(v*p+0.5)) / p
}

func TestPerformanceDrift(t *testing.T) {
	p := NewPerformance(random.NewSequence(1.0), 0)
	p.Tick()
	s := p.Snapshot()

	assert.InDelta(t, 1250*1.01, s.Daily.Profit, 1e-9)
	assert.InDelta(t, 3.3, s.Daily.Change, 1e-9)
	assert.InDelta(t, 8900*1.0075, s.Weekly.Profit, 1e-9)
	assert.InDelta(t, 12.575, s.Weekly.Change, 1e-9)
	assert.InDelta(t, 35600*1.005, s.Monthly.Profit, 1e-9)
	assert.InDelta(t, 28.75, s.Monthly.Change, 1e-9)
}

func TestActivityFeed(t *testing.T) {
	clk := clock.NewFake(epoch)
	// group pick, then message pick
	a := NewActivityFeed(random.NewSequence(0.0, 0.99), clk, 0)
	assert.Equal(t, DefaultActivityInterval, a.Interval())

	seed := a.Snapshot()
	require.Len(t, seed, 3)
	assert.Equal(t, epoch.Add(-5*time.Minute), seed[0].Timestamp)

	clk.Advance(time.Minute)
	a.Tick()
	items := a.Snapshot()
	require.Len(t, items, 4)
	assert.Equal(t, UserJoin, items[0].Kind)
	assert.Equal(t, "User @bot_enthusiast joined the network", items[0].Message)
	assert.Equal(t, clk.Now(), items[0].Timestamp)
	assert.NotEmpty(t, items[0].ID)

	for i := 0; i < 10; i++ {
		a.Tick()
	}
	items = a.Snapshot()
	assert.Len(t, items, 5)

	ids := map[string]bool{}
	for _, it := range items {
		assert.False(t, ids[it.ID], "ids are unique")
		ids[it.ID] = true
	}
}

func TestRunnerSchedulesFeeds(t *testing.T) {
	clk := clock.NewFake(epoch)
	sched := schedule.NewManual(clk)

	var mu sync.Mutex
	ticks := map[string]int{}
	r := NewRunner(sched, zap.NewNop(), func(name string) {
		mu.Lock()
		ticks[name]++
		mu.Unlock()
	})

	rnd := random.New(1)
	r.Start(
		NewMarket(rnd, 0),
		NewNetwork(rnd, 0),
		NewPerformance(rnd, 0),
		NewActivityFeed(rnd, clk, 0),
	)
	sched.Advance(90 * time.Second)

	assert.Equal(t, map[string]int{"market": 18, "network": 3, "performance": 9, "activity": 2}, ticks)

	require.NoError(t, r.Close())
	assert.Equal(t, 0, sched.Active())
}
