package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rogue-runner/internal/logger"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

const logViewEntries = 200

// LogView shows the tail of a LogBuffer in a scrollable viewport.
type LogView struct {
	buffer    *logger.LogBuffer
	viewport  viewport.Model
	showDebug bool
	follow    bool

	timestamp lipgloss.Style
	levels    map[string]lipgloss.Style
}

func NewLogView(buffer *logger.LogBuffer) *LogView {
	palette := style.DefaultPalette()
	return &LogView{
		buffer:    buffer,
		viewport:  viewport.New(60, 10),
		follow:    true,
		timestamp: lipgloss.NewStyle().Foreground(palette.TextMuted),
		levels: map[string]lipgloss.Style{
			"error": lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
			"warn":  lipgloss.NewStyle().Foreground(palette.Warning).Bold(true),
			"info":  lipgloss.NewStyle().Foreground(palette.Info),
			"debug": lipgloss.NewStyle().Foreground(palette.TextMuted),
		},
	}
}

func (lv *LogView) SetSize(width, height int) {
	lv.viewport.Width = max(width-4, 10)
	lv.viewport.Height = max(height, 2)
	lv.Refresh()
}

// ToggleDebug shows or hides debug entries.
func (lv *LogView) ToggleDebug() {
	lv.showDebug = !lv.showDebug
	lv.Refresh()
}

func (lv *LogView) ShowDebug() bool { return lv.showDebug }

// Update forwards scrolling keys. Scrolling away from the bottom stops
// following new entries until the bottom is reached again.
func (lv *LogView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	lv.viewport, cmd = lv.viewport.Update(msg)
	lv.follow = lv.viewport.AtBottom()
	return cmd
}

// Refresh reloads entries from the buffer.
func (lv *LogView) Refresh() {
	if lv.buffer == nil {
		lv.viewport.SetContent("Log capture is disabled")
		return
	}

	var lines []string
	for _, entry := range lv.buffer.GetRecentLogs(logViewEntries) {
		level := strings.ToLower(entry.Level)
		if level == "debug" && !lv.showDebug {
			continue
		}
		lines = append(lines, lv.format(entry, level))
	}
	if len(lines) == 0 {
		lv.viewport.SetContent("No log entries yet")
		return
	}
	lv.viewport.SetContent(strings.Join(lines, "\n"))
	if lv.follow {
		lv.viewport.GotoBottom()
	}
}

func (lv *LogView) format(entry logger.LogEntry, level string) string {
	levelStyle, ok := lv.levels[level]
	if !ok {
		levelStyle = lv.levels["info"]
	}
	line := fmt.Sprintf("%s %s %s",
		lv.timestamp.Render(entry.Timestamp.Format("15:04:05")),
		levelStyle.Render(fmt.Sprintf("%-5s", strings.ToUpper(level))),
		entry.Message)
	if entry.Logger != "" {
		line += lv.timestamp.Render(" [" + entry.Logger + "]")
	}
	return line
}

func (lv *LogView) View() string {
	return lv.viewport.View()
}
