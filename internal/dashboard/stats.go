// internal/dashboard/stats.go
package dashboard

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DefaultKey is the storage key of the persisted snapshot.
const DefaultKey = "dashboard_stats"

// Seed values used on first start or when the stored snapshot is unusable.
const (
	DefaultActiveUsers    = 1400
	DefaultTotalProfits   = 42000.0
	DefaultTradesExecuted = 248
	DefaultSuccessRate    = 91.5

	// ProfitPerUser is credited to TotalProfits for every joining user.
	ProfitPerUser = 30

	minUserIncrease = 2
	maxUserIncrease = 15

	// ConnectionsPerUser scales ActiveUsers into the display-only connection count.
	ConnectionsPerUser = 3
)

// Metric names one of the threshold-gated counters.
type Metric string

const (
	MetricUsers   Metric = "users"
	MetricProfits Metric = "profits"
	MetricTrades  Metric = "trades"
)

// Stats is the dashboard state as shown to visitors.
type Stats struct {
	ActiveUsers        int
	TotalProfits       float64
	TradesExecuted     int
	SuccessRate        float64
	LastUpdate         time.Time
	LastUserIncrease   time.Time
	LastProfitIncrease time.Time
	LastTradeIncrease  time.Time
	NextUserIncrease   int
}

// Intervals are the minimum gaps between advances of each metric.
type Intervals struct {
	Users   time.Duration
	Profits time.Duration
	Trades  time.Duration
}

// DefaultIntervals: users every 30 minutes, profits every 2 hours, trades every 3 hours.
var DefaultIntervals = Intervals{
	Users:   30 * time.Minute,
	Profits: 2 * time.Hour,
	Trades:  3 * time.Hour,
}

// Countdown is the time left until each metric may advance again. Zero means
// the next tick will advance it.
type Countdown struct {
	Users   time.Duration
	Profits time.Duration
	Trades  time.Duration
}

// record is the persisted form. Timestamps are epoch milliseconds.
type record struct {
	ActiveUsers        int     `json:"activeUsers"`
	TotalProfits       float64 `json:"totalProfits"`
	TradesExecuted     int     `json:"tradesExecuted"`
	SuccessRate        float64 `json:"successRate"`
	LastUpdate         int64   `json:"lastUpdate"`
	LastUserIncrease   int64   `json:"lastUserIncrease"`
	LastProfitIncrease int64   `json:"lastProfitIncrease"`
	LastTradeIncrease  int64   `json:"lastTradeIncrease"`
	NextUserIncrease   *int    `json:"nextUserIncrease,omitempty"`
}

func encode(s Stats) ([]byte, error) {
	next := s.NextUserIncrease
	return json.Marshal(record{
		ActiveUsers:        s.ActiveUsers,
		TotalProfits:       s.TotalProfits,
		TradesExecuted:     s.TradesExecuted,
		SuccessRate:        s.SuccessRate,
		LastUpdate:         toMillis(s.LastUpdate),
		LastUserIncrease:   toMillis(s.LastUserIncrease),
		LastProfitIncrease: toMillis(s.LastProfitIncrease),
		LastTradeIncrease:  toMillis(s.LastTradeIncrease),
		NextUserIncrease:   &next,
	})
}

// decode parses a stored snapshot. Zero timestamps and a missing or out of
// range NextUserIncrease are left zero for the caller to fill in.
func decode(data []byte) (Stats, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return Stats{}, err
	}
	if r.ActiveUsers < 0 || r.TradesExecuted < 0 ||
		r.TotalProfits < 0 || math.IsNaN(r.TotalProfits) || math.IsInf(r.TotalProfits, 0) ||
		math.IsNaN(r.SuccessRate) || r.SuccessRate < 0 || r.SuccessRate > 100 {
		return Stats{}, fmt.Errorf("implausible snapshot: users=%d profits=%v trades=%d rate=%v",
			r.ActiveUsers, r.TotalProfits, r.TradesExecuted, r.SuccessRate)
	}

	s := Stats{
		ActiveUsers:        r.ActiveUsers,
		TotalProfits:       r.TotalProfits,
		TradesExecuted:     r.TradesExecuted,
		SuccessRate:        r.SuccessRate,
		LastUpdate:         fromMillis(r.LastUpdate),
		LastUserIncrease:   fromMillis(r.LastUserIncrease),
		LastProfitIncrease: fromMillis(r.LastProfitIncrease),
		LastTradeIncrease:  fromMillis(r.LastTradeIncrease),
	}
	if r.NextUserIncrease != nil && *r.NextUserIncrease >= minUserIncrease && *r.NextUserIncrease <= maxUserIncrease {
		s.NextUserIncrease = *r.NextUserIncrease
	}
	return s, nil
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
