// internal/feed/market.go
package feed

import (
	"sync"
	"time"

	"github.com/rovshanmuradov/rogue-runner/internal/random"
)

// DefaultMarketInterval is how often quotes drift.
const DefaultMarketInterval = 5 * time.Second

// Sentiment is the headline market mood.
type Sentiment string

const (
	Bullish Sentiment = "bullish"
	Neutral Sentiment = "neutral"
	Bearish Sentiment = "bearish"
)

// Pair is one simulated quote.
type Pair struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Volume    float64 `json:"volume"`
}

// MarketSnapshot is what the market widget renders.
type MarketSnapshot struct {
	Pairs     []Pair    `json:"pairs"`
	Sentiment Sentiment `json:"sentiment"`
	MarketCap float64   `json:"marketCap"`
}

var defaultPairs = []Pair{
	{Symbol: "ETH/USDT", Price: 2680.30, Change24h: -1.23, Volume: 890000},
	{Symbol: "BNB/USDT", Price: 315.45, Change24h: 0.89, Volume: 420000},
	{Symbol: "SOL/USDT", Price: 98.75, Change24h: 4.12, Volume: 320000},
}

const defaultMarketCap = 1.65e12

// Market random-walks a few quote pairs.
type Market struct {
	mu       sync.RWMutex
	snap     MarketSnapshot
	rnd      random.Source
	interval time.Duration
}

func NewMarket(rnd random.Source, interval time.Duration) *Market {
	if interval <= 0 {
		interval = DefaultMarketInterval
	}
	pairs := make([]Pair, len(defaultPairs))
	copy(pairs, defaultPairs)
	return &Market{
		snap:     MarketSnapshot{Pairs: pairs, Sentiment: Bullish, MarketCap: defaultMarketCap},
		rnd:      rnd,
		interval: interval,
	}
}

func (m *Market) Name() string            { return "market" }
func (m *Market) Interval() time.Duration { return m.interval }

// Tick moves each price by up to 1%, each change by up to 0.2 points and
// each volume by up to 5%, then redraws the sentiment.
func (m *Market) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := make([]Pair, len(m.snap.Pairs))
	for i, p := range m.snap.Pairs {
		p.Price *= 1 + random.Jitter(m.rnd, 0.01)
		p.Change24h += random.Jitter(m.rnd, 0.2)
		p.Volume *= 1 + random.Jitter(m.rnd, 0.05)
		pairs[i] = p
	}
	m.snap.Pairs = pairs
	m.snap.Sentiment = m.drawSentiment()
}

func (m *Market) drawSentiment() Sentiment {
	if m.rnd.Float64() > 0.7 {
		return Bullish
	}
	if m.rnd.Float64() > 0.3 {
		return Neutral
	}
	return Bearish
}

// Snapshot returns a copy.
func (m *Market) Snapshot() MarketSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.snap
	out.Pairs = make([]Pair, len(m.snap.Pairs))
	copy(out.Pairs, m.snap.Pairs)
	return out
}
