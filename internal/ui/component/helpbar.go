package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

// HelpBar shows the active keyboard shortcuts on one or more lines.
type HelpBar struct {
	bindings []key.Binding
	width    int

	keyStyle  lipgloss.Style
	descStyle lipgloss.Style
	sepStyle  lipgloss.Style
}

func NewHelpBar(bindings []key.Binding) *HelpBar {
	palette := style.DefaultPalette()
	return &HelpBar{
		bindings:  bindings,
		width:     80,
		keyStyle:  lipgloss.NewStyle().Foreground(palette.Primary).Bold(true),
		descStyle: lipgloss.NewStyle().Foreground(palette.TextMuted),
		sepStyle:  lipgloss.NewStyle().Foreground(palette.TextMuted),
	}
}

func (h *HelpBar) SetWidth(width int) *HelpBar {
	if width > 0 {
		h.width = width
	}
	return h
}

// View wraps items onto new lines once the width is used up.
func (h *HelpBar) View() string {
	sep := h.sepStyle.Render(" • ")
	sepWidth := lipgloss.Width(sep)
	maxWidth := h.width - 2

	var lines []string
	var line []string
	lineWidth := 0
	for _, b := range h.bindings {
		if !b.Enabled() || b.Help().Key == "" {
			continue
		}
		item := h.keyStyle.Render(b.Help().Key) + " " + h.descStyle.Render(b.Help().Desc)
		w := lipgloss.Width(item) + sepWidth
		if lineWidth+w > maxWidth && len(line) > 0 {
			lines = append(lines, strings.Join(line, sep))
			line, lineWidth = nil, 0
		}
		line = append(line, item)
		lineWidth += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, sep))
	}
	return lipgloss.NewStyle().Padding(0, 1).MarginTop(1).Render(strings.Join(lines, "\n"))
}
