// internal/feed/network.go
package feed

import (
	"math"
	"sync"
	"time"

	"github.com/rovshanmuradov/rogue-runner/internal/random"
)

const DefaultNetworkInterval = 30 * time.Second

// NetworkStatus is the simulated infrastructure health panel.
type NetworkStatus struct {
	Uptime            float64 `json:"uptime"`
	ResponseTime      float64 `json:"responseTime"`
	ActiveConnections int     `json:"activeConnections"`
	ServerLoad        float64 `json:"serverLoad"`
	APICalls          int     `json:"apiCalls"`
}

var defaultNetworkStatus = NetworkStatus{
	Uptime:            99.9,
	ResponseTime:      0.2,
	ActiveConnections: 4200,
	ServerLoad:        15.8,
	APICalls:          125000,
}

type Network struct {
	mu       sync.RWMutex
	status   NetworkStatus
	rnd      random.Source
	interval time.Duration
}

func NewNetwork(rnd random.Source, interval time.Duration) *Network {
	if interval <= 0 {
		interval = DefaultNetworkInterval
	}
	return &Network{status: defaultNetworkStatus, rnd: rnd, interval: interval}
}

func (n *Network) Name() string            { return "network" }
func (n *Network) Interval() time.Duration { return n.interval }

func (n *Network) Tick() {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := n.status
	s.Uptime = clamp(s.Uptime+random.Jitter(n.rnd, 0.01), 99.5, 100)
	s.ResponseTime = clamp(s.ResponseTime+random.Jitter(n.rnd, 0.01), 0.1, 1.0)
	s.ActiveConnections = int(math.Floor(float64(s.ActiveConnections) * (1 + random.Jitter(n.rnd, 0.01))))
	s.ServerLoad = clamp(s.ServerLoad+random.Jitter(n.rnd, 1), 5, 30)
	s.APICalls += random.IntBetween(n.rnd, 5, 14)
	n.status = s
}

func (n *Network) Snapshot() NetworkStatus {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.status
}
