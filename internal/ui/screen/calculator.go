package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/export"
	"github.com/rovshanmuradov/rogue-runner/internal/format"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/component"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/router"
	"github.com/rovshanmuradov/rogue-runner/internal/ui/style"
)

const (
	defaultAmount = "100"
	chartWidth    = 60
)

// Chart periods offered by the calculator, in days.
var chartPeriods = []int{30, 90}

// CalculatorScreen projects the typed amount over every horizon and charts
// the balance curve for the selected period.
type CalculatorScreen struct {
	projector *projection.Projector
	exporter  *export.ScheduleExporter
	exportDir string
	clock     clock.Clock
	keyMap    ui.KeyMap
	helpBar   *component.HelpBar
	amount    textinput.Model
	table     *component.Table
	chart     *component.Sparkline

	mode   projection.Mode
	period int
	result projection.Result
	points []projection.Point
	final  decimal.Decimal
	status string
	failed bool

	width  int
	height int
}

func NewCalculatorScreen(services ui.Services) *CalculatorScreen {
	keyMap := ui.DefaultKeyMap()

	amount := textinput.New()
	amount.Prompt = "Amount (USDT): "
	amount.Placeholder = defaultAmount
	amount.CharLimit = 16
	amount.SetValue(defaultAmount)
	amount.Focus()

	s := &CalculatorScreen{
		projector: services.Projector,
		exporter:  services.Exporter,
		exportDir: services.ExportDir,
		clock:     services.Clock,
		keyMap:    keyMap,
		helpBar:   component.NewHelpBar(keyMap.ContextualHelp(ui.RouteCalculator)),
		amount:    amount,
		table: component.NewTable(
			component.TableColumn{Header: "Period", Width: 9, Align: lipgloss.Left},
			component.TableColumn{Header: "Net profit", Width: 14, Align: lipgloss.Right},
			component.TableColumn{Header: "Total", Width: 14, Align: lipgloss.Right},
			component.TableColumn{Header: "ROI", Width: 10, Align: lipgloss.Right},
			component.TableColumn{Header: "Annual ROI", Width: 14, Align: lipgloss.Right},
		),
		chart:  component.NewSparkline(chartWidth),
		mode:   projection.Compound,
		period: chartPeriods[len(chartPeriods)-1],
	}
	s.recalculate()
	return s
}

func (s *CalculatorScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *CalculatorScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, s.keyMap.ToggleMode):
			s.ToggleMode()
			return s, nil
		case key.Matches(msg, s.keyMap.TogglePeriod):
			s.TogglePeriod()
			return s, nil
		case key.Matches(msg, s.keyMap.Export):
			s.Export()
			return s, nil
		}
	}

	var cmd tea.Cmd
	before := s.amount.Value()
	s.amount, cmd = s.amount.Update(msg)
	if s.amount.Value() != before {
		s.recalculate()
	}
	return s, cmd
}

// ToggleMode switches between simple and compound interest.
func (s *CalculatorScreen) ToggleMode() {
	if s.mode == projection.Compound {
		s.mode = projection.Simple
	} else {
		s.mode = projection.Compound
	}
	s.recalculate()
}

// TogglePeriod cycles the chart period.
func (s *CalculatorScreen) TogglePeriod() {
	for i, p := range chartPeriods {
		if p == s.period {
			s.period = chartPeriods[(i+1)%len(chartPeriods)]
			break
		}
	}
	s.recalculate()
}

func (s *CalculatorScreen) Mode() projection.Mode { return s.mode }
func (s *CalculatorScreen) Period() int           { return s.period }

// Result is the projection for the current input.
func (s *CalculatorScreen) Result() projection.Result { return s.result }

// SetAmount replaces the input text and recalculates.
func (s *CalculatorScreen) SetAmount(raw string) {
	s.amount.SetValue(raw)
	s.recalculate()
}

// Export writes the current schedule as CSV into the export directory.
func (s *CalculatorScreen) Export() {
	if s.exporter == nil {
		s.status, s.failed = "Export is not available", true
		return
	}
	if !s.result.Valid {
		s.status, s.failed = s.result.Message, true
		return
	}

	principal, _ := projection.ParsePrincipal(s.amount.Value())
	path, err := s.exporter.WriteFile(s.exportDir, export.Schedule{
		Principal:   principal,
		Mode:        s.mode,
		Days:        s.period,
		Points:      s.points,
		GeneratedAt: s.clock.Now(),
	}, export.FormatCSV)
	if err != nil {
		s.status, s.failed = err.Error(), true
		return
	}
	s.status, s.failed = "Saved "+path, false
}

// Status is the outcome of the last export and whether it failed.
func (s *CalculatorScreen) Status() (string, bool) {
	return s.status, s.failed
}

func (s *CalculatorScreen) recalculate() {
	s.result = s.projector.ProjectInput(s.amount.Value(), s.mode)
	s.final = decimal.Zero
	s.points = nil
	s.status = ""
	if !s.result.Valid {
		s.table.SetRows(nil)
		s.chart.SetData(nil)
		return
	}

	rows := make([][]string, 0, len(s.result.Projections))
	for _, p := range s.result.Projections {
		rows = append(rows, []string{
			p.Label,
			format.Currency(p.NetProfit),
			format.Currency(p.NetTotal),
			format.DecimalPercent(p.ROI),
			format.DecimalPercent(p.AnnualizedROI),
		})
	}
	s.table.SetRows(rows)

	principal, _ := projection.ParsePrincipal(s.amount.Value())
	s.points = s.projector.Series(principal, s.mode, s.period)
	if len(s.points) > 0 {
		s.final = s.points[len(s.points)-1].Balance
	}
	s.chart.SetData(sampleBalances(s.points, chartWidth))
}

// sampleBalances picks at most n evenly spaced balances, always keeping the
// first and last point.
func sampleBalances(points []projection.Point, n int) []float64 {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	if len(points) <= n {
		out := make([]float64, len(points))
		for i, p := range points {
			out[i] = p.Balance.InexactFloat64()
		}
		return out
	}
	out := make([]float64, n)
	step := float64(len(points)-1) / float64(n-1)
	for i := range out {
		out[i] = points[int(float64(i)*step+0.5)].Balance.InexactFloat64()
	}
	return out
}

func (s *CalculatorScreen) View() string {
	var b strings.Builder
	b.WriteString(style.TitleStyle.Render("Profit Calculator"))
	b.WriteString("\n")
	b.WriteString(s.amount.View())
	b.WriteString("\n")
	b.WriteString(style.HelpStyle.Render(s.projector.MinimumNotice()))
	b.WriteString("\n")
	b.WriteString(style.Row("Mode", strings.ToUpper(s.mode.String()[:1])+s.mode.String()[1:]))
	b.WriteString("\n\n")

	if !s.result.Valid {
		b.WriteString(style.ErrorStyle.Render(s.result.Message))
		b.WriteString(s.helpBar.View())
		return b.String()
	}

	b.WriteString(s.table.View())
	b.WriteString("\n")
	chart := lipgloss.JoinVertical(lipgloss.Left,
		style.LabelStyle.Render(fmt.Sprintf("Balance over %d days", s.period)),
		s.chart.View(),
		style.Row("Final", format.USDT(s.final)),
	)
	b.WriteString(style.PanelStyle.Render(chart))
	if s.status != "" {
		b.WriteString("\n")
		if s.failed {
			b.WriteString(style.ErrorStyle.Render(s.status))
		} else {
			b.WriteString(style.SuccessStyle.Render(s.status))
		}
	}
	b.WriteString(s.helpBar.View())
	return b.String()
}

func (s *CalculatorScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
}
