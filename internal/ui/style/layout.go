package style

import "github.com/charmbracelet/lipgloss"

var palette = DefaultPalette()

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Margin(0, 0, 1, 0)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 2).
			Margin(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Bold(true).
			Padding(0, 2)

	ItemStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(palette.Error)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(palette.Success)

	HelpStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true)
)

// Signed renders text in the gain or loss color of v.
func Signed(v float64, text string) string {
	return lipgloss.NewStyle().Foreground(palette.Change(v)).Render(text)
}

// Stat renders a label above a bold value.
func Stat(label, value string) string {
	return lipgloss.JoinVertical(lipgloss.Left, LabelStyle.Render(label), ValueStyle.Render(value))
}

// AdaptiveJoinHorizontal stacks blocks vertically on narrow terminals.
func AdaptiveJoinHorizontal(width int, blocks ...string) string {
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// Row renders label and value on one line.
func Row(label, value string) string {
	return LabelStyle.Render(label+" ") + ValueStyle.Render(value)
}
