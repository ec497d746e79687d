package screen

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rogue-runner/internal/feed"
	"github.com/rovshanmuradov/rogue-runner/internal/format"
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/component"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

const priceHistory = 24

// MarketScreen shows the simulated quotes with a short price history and
// the bot's performance by period.
type MarketScreen struct {
	services ui.Services
	keyMap   ui.KeyMap
	helpBar  *component.HelpBar
	history  map[string]*component.Sparkline

	width  int
	height int
}

func NewMarketScreen(services ui.Services) *MarketScreen {
	keyMap := ui.DefaultKeyMap()
	s := &MarketScreen{
		services: services,
		keyMap:   keyMap,
		helpBar:  component.NewHelpBar(keyMap.ContextualHelp(ui.RouteMarket)),
		history:  make(map[string]*component.Sparkline),
	}
	s.record()
	return s
}

func (s *MarketScreen) Init() tea.Cmd { return nil }

func (s *MarketScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if msg, ok := msg.(ui.FeedTickMsg); ok && msg.Feed == s.services.Market.Name() {
		s.record()
	}
	return s, nil
}

func (s *MarketScreen) record() {
	for _, p := range s.services.Market.Snapshot().Pairs {
		line, ok := s.history[p.Symbol]
		if !ok {
			line = component.NewSparkline(priceHistory).ShowTrend(true)
			s.history[p.Symbol] = line
		}
		line.Push(p.Price)
	}
}

// Samples returns how many prices have been recorded for symbol.
func (s *MarketScreen) Samples(symbol string) int {
	if line, ok := s.history[symbol]; ok {
		return line.Len()
	}
	return 0
}

func (s *MarketScreen) View() string {
	market := s.services.Market.Snapshot()

	var pairs []string
	for _, p := range market.Pairs {
		row := fmt.Sprintf("%-9s %10s %s %8s  %s",
			p.Symbol,
			format.Price(p.Price),
			style.Signed(p.Change24h, fmt.Sprintf("%8s", format.SignedPercent(p.Change24h))),
			format.Volume(p.Volume),
			s.history[p.Symbol].View())
		pairs = append(pairs, row)
	}

	header := fmt.Sprintf("%s   %s",
		style.Row("Sentiment", sentimentLabel(market.Sentiment)),
		style.Row("Market cap", "$"+format.Volume(market.MarketCap)))

	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Market"))
	b.WriteString("\n")
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(style.PanelStyle.Render(strings.Join(pairs, "\n")))
	b.WriteString("\n")
	b.WriteString(s.renderPerformance())
	b.WriteString(s.helpBar.View())
	return b.String()
}

func sentimentLabel(sentiment feed.Sentiment) string {
	switch sentiment {
	case feed.Bullish:
		return style.Signed(1, "Bullish")
	case feed.Bearish:
		return style.Signed(-1, "Bearish")
	default:
		return "Neutral"
	}
}

func (s *MarketScreen) renderPerformance() string {
	perf := s.services.Performance.Snapshot()
	periods := []struct {
		label  string
		result feed.PeriodResult
	}{
		{"Daily", perf.Daily},
		{"Weekly", perf.Weekly},
		{"Monthly", perf.Monthly},
	}

	cards := make([]string, 0, len(periods))
	for _, p := range periods {
		body := lipgloss.JoinVertical(lipgloss.Left,
			style.Stat(p.label, "$"+format.Count(int(p.result.Profit))),
			style.Signed(p.result.Change, format.SignedPercent(p.result.Change)),
		)
		cards = append(cards, style.PanelStyle.Render(body))
	}
	return style.AdaptiveJoinHorizontal(s.width, cards...)
}

func (s *MarketScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
}
