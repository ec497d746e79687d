package screen

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/format"
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/component"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

// advanceHighlight is how long a freshly advanced counter stays marked.
const advanceHighlight = 5 * time.Second

// DashboardScreen shows the live counters with their countdowns, the
// network panel and the activity feed.
type DashboardScreen struct {
	services ui.Services
	keyMap   ui.KeyMap
	helpBar  *component.HelpBar
	users    *component.Sparkline

	width  int
	height int

	advanced map[dashboard.Metric]time.Time
}

func NewDashboardScreen(services ui.Services) *DashboardScreen {
	keyMap := ui.DefaultKeyMap()
	s := &DashboardScreen{
		services: services,
		keyMap:   keyMap,
		helpBar:  component.NewHelpBar(keyMap.ContextualHelp(ui.RouteDashboard)),
		users:    component.NewSparkline(30).ShowTrend(true),
		advanced: make(map[dashboard.Metric]time.Time),
	}
	s.users.Push(float64(services.Dashboard.Snapshot().ActiveUsers))
	return s
}

func (s *DashboardScreen) Init() tea.Cmd { return nil }

func (s *DashboardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.DashboardAdvancedMsg:
		now := s.services.Clock.Now()
		for _, m := range msg.Metrics {
			s.advanced[m] = now
		}
		if slices.Contains(msg.Metrics, dashboard.MetricUsers) {
			s.users.Push(float64(s.services.Dashboard.Snapshot().ActiveUsers))
		}

	case ui.RefreshMsg:
		now := s.services.Clock.Now()
		for m, at := range s.advanced {
			if now.Sub(at) >= advanceHighlight {
				delete(s.advanced, m)
			}
		}
	}
	return s, nil
}

// Highlighted reports whether metric advanced recently.
func (s *DashboardScreen) Highlighted(metric dashboard.Metric) bool {
	_, ok := s.advanced[metric]
	return ok
}

func (s *DashboardScreen) View() string {
	stats := s.services.Dashboard.Snapshot()
	countdown := s.services.Dashboard.Countdown()

	cards := []string{
		s.card("Active Users", format.Count(stats.ActiveUsers), countdown.Users, dashboard.MetricUsers),
		s.card("Total Profits", format.Profits(stats.TotalProfits), countdown.Profits, dashboard.MetricProfits),
		s.card("Trades Executed", format.Count(stats.TradesExecuted), countdown.Trades, dashboard.MetricTrades),
		style.PanelStyle.Render(style.Stat("Success Rate", format.Percent(stats.SuccessRate, 1))),
	}

	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Live Dashboard"))
	b.WriteString("\n")
	b.WriteString(style.AdaptiveJoinHorizontal(s.width, cards...))
	b.WriteString("\n")
	b.WriteString(style.PanelStyle.Render(fmt.Sprintf("%s  %s",
		style.LabelStyle.Render("Growth"), s.users.View())))
	b.WriteString("\n")
	b.WriteString(style.AdaptiveJoinHorizontal(s.width, s.renderNetwork(), s.renderActivity()))
	b.WriteString("\n")
	b.WriteString(style.HelpStyle.Render("Last update " + format.TimeAgo(s.services.Clock.Now(), stats.LastUpdate)))
	b.WriteString(s.helpBar.View())
	return b.String()
}

func (s *DashboardScreen) card(label, value string, left time.Duration, metric dashboard.Metric) string {
	if s.Highlighted(metric) {
		value = style.SuccessStyle.Render(value + " ▲")
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		style.Stat(label, value),
		style.HelpStyle.Render("next in "+format.Countdown(left)),
	)
	return style.PanelStyle.Render(body)
}

func (s *DashboardScreen) renderNetwork() string {
	n := s.services.Network.Snapshot()
	lines := []string{
		style.SubHeaderStyle.Render("Network"),
		style.Row("Uptime", format.Percent(n.Uptime, 2)),
		style.Row("Response", fmt.Sprintf("%.2fs", n.ResponseTime)),
		style.Row("Connections", format.Count(n.ActiveConnections)),
		style.Row("Server load", format.Percent(n.ServerLoad, 1)),
		style.Row("API calls", format.Count(n.APICalls)),
	}
	return style.PanelStyle.Render(strings.Join(lines, "\n"))
}

func (s *DashboardScreen) renderActivity() string {
	now := s.services.Clock.Now()
	lines := []string{style.SubHeaderStyle.Render("Activity")}
	for _, a := range s.services.Activity.Snapshot() {
		lines = append(lines, fmt.Sprintf("%s %s",
			style.LabelStyle.Render(fmt.Sprintf("%-8s", format.TimeAgo(now, a.Timestamp))),
			a.Message))
	}
	return style.PanelStyle.Render(strings.Join(lines, "\n"))
}

func (s *DashboardScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
}
