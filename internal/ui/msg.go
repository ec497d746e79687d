package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
)

// RouterMsg asks the router to open a screen.
type RouterMsg struct {
	To Route
}

// RefreshMsg drives periodic redraws of countdowns and feed panels.
type RefreshMsg time.Time

// DashboardAdvancedMsg reports which gated metrics moved on the last tick.
type DashboardAdvancedMsg struct {
	Metrics []dashboard.Metric
}

// FeedTickMsg reports that a simulated feed produced a new snapshot.
type FeedTickMsg struct {
	Feed string
}

// Route identifies a screen.
type Route int

const (
	RouteMenu Route = iota
	RouteDashboard
	RouteCalculator
	RouteMarket
	RouteTestimonials
	RouteLogs
)

func (r Route) String() string {
	switch r {
	case RouteMenu:
		return "menu"
	case RouteDashboard:
		return "dashboard"
	case RouteCalculator:
		return "calculator"
	case RouteMarket:
		return "market"
	case RouteTestimonials:
		return "testimonials"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}

// Navigate returns a command that opens route.
func Navigate(route Route) tea.Cmd {
	return func() tea.Msg {
		return RouterMsg{To: route}
	}
}

// Refresh schedules a single RefreshMsg after interval.
func Refresh(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return RefreshMsg(t)
	})
}
