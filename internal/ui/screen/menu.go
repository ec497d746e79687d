package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rogue-runner/internal/format"
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/component"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

// MenuItem represents a menu item
type MenuItem struct {
	Label       string
	Description string
	Route       ui.Route
}

var menuItems = []MenuItem{
	{Label: "▶ Live Dashboard", Description: "Active traders, profits and trade counters", Route: ui.RouteDashboard},
	{Label: "∑ Profit Calculator", Description: "Project returns over one day to three months", Route: ui.RouteCalculator},
	{Label: "↗ Market", Description: "Quotes, sentiment and bot performance", Route: ui.RouteMarket},
	{Label: "★ Reviews", Description: "Read and post trader testimonials", Route: ui.RouteTestimonials},
	{Label: "≡ Logs", Description: "View application logs", Route: ui.RouteLogs},
}

// MenuScreen is the root screen.
type MenuScreen struct {
	services ui.Services
	keyMap   ui.KeyMap
	helpBar  *component.HelpBar

	selectedIndex int
	width         int
	height        int
	lastUpdate    time.Time

	menuStyle        lipgloss.Style
	descriptionStyle lipgloss.Style
}

func NewMenuScreen(services ui.Services) *MenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()
	return &MenuScreen{
		services:   services,
		keyMap:     keyMap,
		helpBar:    component.NewHelpBar(keyMap.ContextualHelp(ui.RouteMenu)),
		lastUpdate: services.Clock.Now(),

		menuStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(1, 4).
			Margin(1, 0),

		descriptionStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 4).
			Italic(true),
	}
}

func (m *MenuScreen) Init() tea.Cmd { return nil }

func (m *MenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Up):
			m.moveUp()
		case key.Matches(msg, m.keyMap.Down):
			m.moveDown()
		case key.Matches(msg, m.keyMap.Enter):
			return m, ui.Navigate(m.Selected())
		case key.Matches(msg, m.keyMap.Dashboard):
			return m, ui.Navigate(ui.RouteDashboard)
		case key.Matches(msg, m.keyMap.Calculator):
			return m, ui.Navigate(ui.RouteCalculator)
		case key.Matches(msg, m.keyMap.Market):
			return m, ui.Navigate(ui.RouteMarket)
		case key.Matches(msg, m.keyMap.Testimonials):
			return m, ui.Navigate(ui.RouteTestimonials)
		case key.Matches(msg, m.keyMap.Logs):
			return m, ui.Navigate(ui.RouteLogs)
		}

	case ui.RefreshMsg:
		m.lastUpdate = m.services.Clock.Now()
	}
	return m, nil
}

func (m *MenuScreen) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	stats := m.services.Dashboard.Snapshot()
	status := fmt.Sprintf("%s traders online • %s • %s",
		format.Count(stats.ActiveUsers),
		m.services.Projector.MinimumNotice(),
		m.lastUpdate.Format("15:04:05"))

	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Rogue Runner"))
	b.WriteString("\n")
	b.WriteString(style.HelpStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.renderMenu())
	b.WriteString(m.helpBar.View())

	result := b.String()
	if m.width > 80 {
		result = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, result)
	}
	return result
}

func (m *MenuScreen) renderMenu() string {
	var lines []string
	for i, item := range menuItems {
		if i == m.selectedIndex {
			lines = append(lines, style.SelectedStyle.Render(item.Label))
			lines = append(lines, m.descriptionStyle.Render(item.Description))
			continue
		}
		lines = append(lines, style.ItemStyle.Render(item.Label))
	}
	return m.menuStyle.Render(strings.Join(lines, "\n"))
}

func (m *MenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.helpBar.SetWidth(width)
}

// Selected returns the highlighted route.
func (m *MenuScreen) Selected() ui.Route {
	return menuItems[m.selectedIndex].Route
}

func (m *MenuScreen) moveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	} else {
		m.selectedIndex = len(menuItems) - 1
	}
}

func (m *MenuScreen) moveDown() {
	if m.selectedIndex < len(menuItems)-1 {
		m.selectedIndex++
	} else {
		m.selectedIndex = 0
	}
}
