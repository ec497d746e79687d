package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Tab   key.Binding

	Dashboard    key.Binding
	Calculator   key.Binding
	Market       key.Binding
	Testimonials key.Binding
	Logs         key.Binding

	// Calculator
	ToggleMode   key.Binding
	TogglePeriod key.Binding
	Export       key.Binding

	// Testimonials
	Submit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),

		Dashboard: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dashboard"),
		),
		Calculator: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "calculator"),
		),
		Market: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "market"),
		),
		Testimonials: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reviews"),
		),
		Logs: key.NewBinding(
			key.WithKeys("l", "f12"),
			key.WithHelp("l", "logs"),
		),

		ToggleMode: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "simple/compound"),
		),
		TogglePeriod: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "chart period"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export CSV"),
		),

		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
	}
}

// ContextualHelp returns the bindings worth showing on route.
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Dashboard, k.Calculator, k.Market, k.Testimonials, k.Logs, k.Quit}
	case RouteCalculator:
		return []key.Binding{k.ToggleMode, k.TogglePeriod, k.Export, k.Back, k.Quit}
	case RouteTestimonials:
		return []key.Binding{k.Tab, k.Submit, k.Back, k.Quit}
	case RouteLogs:
		return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
	default:
		return []key.Binding{k.Back, k.Quit}
	}
}
