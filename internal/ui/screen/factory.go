package screen

import (
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
)

// Factory builds a fresh screen for every navigation, so each visit starts
// from current data.
func Factory(services ui.Services) router.Factory {
	return func(route ui.Route) router.Screen {
		switch route {
		case ui.RouteMenu:
			return NewMenuScreen(services)
		case ui.RouteDashboard:
			return NewDashboardScreen(services)
		case ui.RouteCalculator:
			return NewCalculatorScreen(services)
		case ui.RouteMarket:
			return NewMarketScreen(services)
		case ui.RouteTestimonials:
			return NewTestimonialsScreen(services)
		case ui.RouteLogs:
			return NewLogsScreen(services)
		default:
			return nil
		}
	}
}
