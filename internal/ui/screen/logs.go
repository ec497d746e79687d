package screen

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/rogue-runner/internal/logger"
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/component"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

// LogsScreen tails the in-memory log buffer.
type LogsScreen struct {
	buffer  *logger.LogBuffer
	view    *component.LogView
	keyMap  ui.KeyMap
	helpBar *component.HelpBar

	width  int
	height int
}

func NewLogsScreen(services ui.Services) *LogsScreen {
	keyMap := ui.DefaultKeyMap()
	s := &LogsScreen{
		buffer:  services.Logs,
		view:    component.NewLogView(services.Logs),
		keyMap:  keyMap,
		helpBar: component.NewHelpBar(keyMap.ContextualHelp(ui.RouteLogs)),
	}
	s.view.Refresh()
	return s
}

func (s *LogsScreen) Init() tea.Cmd { return nil }

func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RefreshMsg:
		s.view.Refresh()
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+d" {
			s.view.ToggleDebug()
			return s, nil
		}
	}
	return s, s.view.Update(msg)
}

func (s *LogsScreen) View() string {
	var total uint64
	if s.buffer != nil {
		total = s.buffer.Total()
	}
	status := fmt.Sprintf("%d entries logged • debug %s • ctrl+d toggles debug", total, onOff(s.view.ShowDebug()))

	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Logs"))
	b.WriteString("\n")
	b.WriteString(style.HelpStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(style.PanelStyle.Render(s.view.View()))
	b.WriteString(s.helpBar.View())
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// SetSize leaves room for the title, status line and help bar.
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.view.SetSize(width, height-10)
}
