package main

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/screen"
)

const refreshInterval = time.Second

// AppModel represents the main TUI application model
type AppModel struct {
	router *router.Router
	bus    *ui.Bus
	keyMap ui.KeyMap
	width  int
	height int
}

func NewAppModel(services ui.Services, bus *ui.Bus) *AppModel {
	return &AppModel{
		router: router.New(screen.Factory(services), ui.RouteMenu),
		bus:    bus,
		keyMap: ui.DefaultKeyMap(),
	}
}

// Init starts the router, the refresh loop and the bus listener. Each loop
// is re-armed in Update after it delivers.
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.router.Init(),
		m.bus.Listen(),
		ui.Refresh(refreshInterval),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}

	case ui.RefreshMsg:
		cmds = append(cmds, ui.Refresh(refreshInterval))

	case ui.DashboardAdvancedMsg, ui.FeedTickMsg:
		cmds = append(cmds, m.bus.Listen())
	}

	var cmd tea.Cmd
	m.router, cmd = m.router.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return m.router.View()
}
