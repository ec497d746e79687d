// internal/dashboard/store.go
package dashboard

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/random"
	"github.com/rovshanmuradov/rogue-runner/internal/storage"
)

const (
	profitGrowthBase   = 0.002
	profitGrowthSpread = 0.001

	successWaveAmplitude = 0.5
	successWavePeriodMs  = 300000.0
	successNoise         = 0.2
)

// Option customises a Store.
type Option func(*Store)

// WithIntervals overrides the per-metric gating intervals.
func WithIntervals(in Intervals) Option {
	return func(s *Store) { s.intervals = in }
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithBaseSuccessRate overrides the centre of the success rate oscillation.
func WithBaseSuccessRate(rate float64) Option {
	return func(s *Store) { s.baseSuccessRate = rate }
}

// Store holds the simulated dashboard metrics. Each metric advances only when
// its interval has elapsed since its last advance, so the numbers look steady
// across restarts as long as the snapshot survives.
type Store struct {
	mu    sync.RWMutex
	stats Stats

	// persistMu orders snapshot writes; version drops writes that lost a race.
	persistMu sync.Mutex
	version   uint64
	persisted uint64

	kv              storage.KV
	clock           clock.Clock
	rnd             random.Source
	logger          *zap.Logger
	intervals       Intervals
	key             string
	baseSuccessRate float64
}

// NewStore loads the persisted snapshot or starts from the defaults. Load
// problems are never surfaced to the caller.
func NewStore(ctx context.Context, kv storage.KV, clk clock.Clock, rnd random.Source, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		kv:              kv,
		clock:           clk,
		rnd:             rnd,
		logger:          logger.Named("dashboard"),
		intervals:       DefaultIntervals,
		key:             DefaultKey,
		baseSuccessRate: DefaultSuccessRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stats = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) Stats {
	now := s.clock.Now()

	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug("Snapshot unavailable, starting from defaults", zap.Error(err))
		}
		return s.defaults(now)
	}

	stats, err := decode(data)
	if err != nil {
		s.logger.Debug("Snapshot unreadable, starting from defaults", zap.Error(err))
		return s.defaults(now)
	}

	for _, ts := range []*time.Time{&stats.LastUpdate, &stats.LastUserIncrease, &stats.LastProfitIncrease, &stats.LastTradeIncrease} {
		if ts.IsZero() || ts.After(now) {
			*ts = now
		}
	}
	if stats.NextUserIncrease == 0 {
		stats.NextUserIncrease = s.drawUserIncrease()
	}

	s.logger.Debug("Snapshot restored",
		zap.Int("active_users", stats.ActiveUsers),
		zap.Float64("total_profits", stats.TotalProfits),
		zap.Int("trades_executed", stats.TradesExecuted))
	return stats
}

func (s *Store) defaults(now time.Time) Stats {
	return Stats{
		ActiveUsers:        DefaultActiveUsers,
		TotalProfits:       DefaultTotalProfits,
		TradesExecuted:     DefaultTradesExecuted,
		SuccessRate:        s.baseSuccessRate,
		LastUpdate:         now,
		LastUserIncrease:   now,
		LastProfitIncrease: now,
		LastTradeIncrease:  now,
		NextUserIncrease:   s.drawUserIncrease(),
	}
}

func (s *Store) drawUserIncrease() int {
	return random.IntBetween(s.rnd, minUserIncrease, maxUserIncrease)
}

// Tick runs one update pass and returns the metrics that advanced. The
// snapshot is written only if at least one metric advanced; write failures
// are logged and otherwise ignored.
func (s *Store) Tick(ctx context.Context) []Metric {
	now := s.clock.Now()

	s.mu.Lock()
	next := s.stats
	var advanced []Metric

	if now.Sub(next.LastUserIncrease) >= s.intervals.Users {
		next.ActiveUsers += next.NextUserIncrease
		next.TotalProfits += float64(next.NextUserIncrease * ProfitPerUser)
		next.NextUserIncrease = s.drawUserIncrease()
		next.LastUserIncrease = now
		advanced = append(advanced, MetricUsers)
	}

	if now.Sub(next.LastProfitIncrease) >= s.intervals.Profits {
		growth := 1 + profitGrowthBase + s.rnd.Float64()*profitGrowthSpread
		next.TotalProfits = math.Max(next.TotalProfits, math.Floor(next.TotalProfits*growth))
		next.LastProfitIncrease = now
		advanced = append(advanced, MetricProfits)
	}

	if now.Sub(next.LastTradeIncrease) >= s.intervals.Trades {
		next.TradesExecuted++
		next.LastTradeIncrease = now
		advanced = append(advanced, MetricTrades)
	}

	next.SuccessRate = s.successRate(now)
	next.LastUpdate = now
	s.stats = next

	var version uint64
	if len(advanced) > 0 {
		s.version++
		version = s.version
	}
	s.mu.Unlock()

	if len(advanced) > 0 {
		s.logger.Debug("Dashboard advanced",
			zap.Any("metrics", advanced),
			zap.Int("active_users", next.ActiveUsers),
			zap.Float64("total_profits", next.TotalProfits),
			zap.Int("trades_executed", next.TradesExecuted))
		s.persist(ctx, next, version)
	}
	return advanced
}

// successRate oscillates slowly around the base with a little noise.
func (s *Store) successRate(now time.Time) float64 {
	wave := math.Sin(float64(now.UnixMilli())/successWavePeriodMs) * successWaveAmplitude
	noise := s.rnd.Float64()*2*successNoise - successNoise
	return s.baseSuccessRate + wave + noise
}

func (s *Store) persist(ctx context.Context, stats Stats, version uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if version <= s.persisted {
		return
	}

	data, err := encode(stats)
	if err != nil {
		s.logger.Warn("Failed to encode dashboard snapshot", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.Warn("Failed to persist dashboard snapshot", zap.Error(err))
		return
	}
	s.persisted = version
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Countdown reports how long until each metric may advance again.
func (s *Store) Countdown() Countdown {
	now := s.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Countdown{
		Users:   remaining(s.intervals.Users, now.Sub(s.stats.LastUserIncrease)),
		Profits: remaining(s.intervals.Profits, now.Sub(s.stats.LastProfitIncrease)),
		Trades:  remaining(s.intervals.Trades, now.Sub(s.stats.LastTradeIncrease)),
	}
}

func remaining(interval, elapsed time.Duration) time.Duration {
	if left := interval - elapsed; left > 0 {
		return left
	}
	return 0
}

// ActiveConnections is a display-only figure derived from ActiveUsers.
func (s *Store) ActiveConnections() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.ActiveUsers * ConnectionsPerUser
}

// Intervals returns the gating intervals in use.
func (s *Store) Intervals() Intervals {
	return s.intervals
}
