// internal/feed/activity.go
package feed

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/random"
)

const (
	DefaultActivityInterval = 45 * time.Second
	activityLimit           = 5
)

type ActivityKind string

const (
	UserJoin    ActivityKind = "user_join"
	Milestone   ActivityKind = "milestone"
	Achievement ActivityKind = "achievement"
)

type Activity struct {
	ID        string       `json:"id"`
	Kind      ActivityKind `json:"type"`
	Message   string       `json:"message"`
	Timestamp time.Time    `json:"timestamp"`
}

var activityMessages = []struct {
	kind     ActivityKind
	messages []string
}{
	{UserJoin, []string{
		"User @crypto_king joined the network",
		"User @profit_hunter joined the network",
		"User @trade_master joined the network",
		"User @bot_enthusiast joined the network",
	}},
	{Milestone, []string{
		"New profit milestone achieved!",
		"Trading volume milestone reached!",
		"User growth target exceeded!",
	}},
	{Achievement, []string{
		"Perfect trading streak: 10 consecutive wins",
		"Daily profit target exceeded",
		"New efficiency record set",
	}},
}

// ActivityFeed keeps the most recent fake community events, newest first.
type ActivityFeed struct {
	mu       sync.RWMutex
	items    []Activity
	rnd      random.Source
	clock    clock.Clock
	interval time.Duration
}

func NewActivityFeed(rnd random.Source, clk clock.Clock, interval time.Duration) *ActivityFeed {
	if interval <= 0 {
		interval = DefaultActivityInterval
	}
	now := clk.Now()
	return &ActivityFeed{
		items: []Activity{
			{ID: uuid.NewString(), Kind: UserJoin, Message: "User @trader_pro joined the network", Timestamp: now.Add(-5 * time.Minute)},
			{ID: uuid.NewString(), Kind: Milestone, Message: "1500+ active users milestone reached!", Timestamp: now.Add(-10 * time.Minute)},
			{ID: uuid.NewString(), Kind: Achievement, Message: "Daily profit target exceeded by 15%", Timestamp: now.Add(-15 * time.Minute)},
		},
		rnd:      rnd,
		clock:    clk,
		interval: interval,
	}
}

func (a *ActivityFeed) Name() string            { return "activity" }
func (a *ActivityFeed) Interval() time.Duration { return a.interval }

// Tick prepends one random event and drops the oldest beyond the limit.
func (a *ActivityFeed) Tick() {
	group := activityMessages[random.Pick(a.rnd, len(activityMessages))]
	item := Activity{
		ID:        uuid.NewString(),
		Kind:      group.kind,
		Message:   group.messages[random.Pick(a.rnd, len(group.messages))],
		Timestamp: a.clock.Now(),
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	items := make([]Activity, 0, activityLimit)
	items = append(items, item)
	for _, it := range a.items {
		if len(items) == activityLimit {
			break
		}
		items = append(items, it)
	}
	a.items = items
}

func (a *ActivityFeed) Snapshot() []Activity {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Activity, len(a.items))
	copy(out, a.items)
	return out
}
