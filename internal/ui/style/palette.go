package style

import "github.com/charmbracelet/lipgloss"

var (
	Cyan    = lipgloss.Color("#22D3EE") // Primary highlight
	Magenta = lipgloss.Color("#FF1B6B") // Accent
	Yellow  = lipgloss.Color("#FFB500") // Warnings
	Green   = lipgloss.Color("#4ADE80") // Gains
	Red     = lipgloss.Color("#F87171") // Losses / errors
	Blue    = lipgloss.Color("#3B82F6") // Info

	Base03 = lipgloss.Color("#000000") // Background
	Base02 = lipgloss.Color("#111827") // Panels
	Base01 = lipgloss.Color("#6B7280") // Muted text
	Base1  = lipgloss.Color("#9CA3AF") // Secondary text
	Base2  = lipgloss.Color("#E5E7EB") // Primary text
)

// Palette provides a centralized color management
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Info      lipgloss.Color

	Background    lipgloss.Color
	BackgroundAlt lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color

	Gain lipgloss.Color
	Loss lipgloss.Color
}

func DefaultPalette() Palette {
	return Palette{
		Primary:   Cyan,
		Secondary: Magenta,
		Success:   Green,
		Error:     Red,
		Warning:   Yellow,
		Info:      Blue,

		Background:    Base03,
		BackgroundAlt: Base02,
		Text:          Base2,
		TextMuted:     Base01,
		TextSecondary: Base1,

		Gain: Green,
		Loss: Red,
	}
}

// Change picks the gain or loss color for a signed value.
func (p Palette) Change(v float64) lipgloss.Color {
	if v < 0 {
		return p.Loss
	}
	return p.Gain
}
