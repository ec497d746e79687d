package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline is a one-line chart of the most recent width values.
type Sparkline struct {
	data  []float64
	width int
	color lipgloss.Color
	trend bool
}

func NewSparkline(width int) *Sparkline {
	if width <= 0 {
		width = 20
	}
	return &Sparkline{width: width, color: style.DefaultPalette().Primary}
}

// SetData replaces the series, keeping only the last width values.
func (s *Sparkline) SetData(data []float64) *Sparkline {
	if len(data) > s.width {
		data = data[len(data)-s.width:]
	}
	s.data = append(s.data[:0], data...)
	return s
}

// Push appends one value, dropping the oldest beyond width.
func (s *Sparkline) Push(value float64) *Sparkline {
	s.data = append(s.data, value)
	if len(s.data) > s.width {
		s.data = s.data[len(s.data)-s.width:]
	}
	return s
}

func (s *Sparkline) SetColor(color lipgloss.Color) *Sparkline {
	s.color = color
	return s
}

// ShowTrend appends an arrow comparing the last two values.
func (s *Sparkline) ShowTrend(show bool) *Sparkline {
	s.trend = show
	return s
}

func (s *Sparkline) Len() int { return len(s.data) }

func (s *Sparkline) View() string {
	line := lipgloss.NewStyle().Foreground(s.color).Render(s.Blocks())
	if !s.trend {
		return line
	}
	return line + " " + s.renderTrend()
}

// Blocks renders the bare characters, padded to width.
func (s *Sparkline) Blocks() string {
	if len(s.data) == 0 {
		return strings.Repeat("▁", s.width)
	}

	lo, hi := s.data[0], s.data[0]
	for _, v := range s.data {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b strings.Builder
	for _, v := range s.data {
		idx := len(sparkChars) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
		}
		b.WriteRune(sparkChars[idx])
	}
	b.WriteString(strings.Repeat(" ", s.width-len(s.data)))
	return b.String()
}

func (s *Sparkline) renderTrend() string {
	palette := style.DefaultPalette()
	if len(s.data) < 2 {
		return lipgloss.NewStyle().Foreground(palette.TextMuted).Render("→")
	}
	prev, cur := s.data[len(s.data)-2], s.data[len(s.data)-1]
	switch {
	case cur > prev:
		return lipgloss.NewStyle().Foreground(palette.Gain).Render("↗")
	case cur < prev:
		return lipgloss.NewStyle().Foreground(palette.Loss).Render("↘")
	default:
		return lipgloss.NewStyle().Foreground(palette.TextMuted).Render("→")
	}
}

// ChangePercent is the percentage change from the first to the last value.
func (s *Sparkline) ChangePercent() float64 {
	if len(s.data) < 2 || s.data[0] == 0 {
		return 0
	}
	first, last := s.data[0], s.data[len(s.data)-1]
	return (last - first) / first * 100
}
