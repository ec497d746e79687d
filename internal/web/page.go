package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/content"
	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/feed"
	"github.com/rovshanmuradov/rogue-runner/internal/format"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
	"github.com/rovshanmuradov/rogue-runner/internal/testimonial"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultAmount = "100"

const (
	chartWidth  = 600
	chartHeight = 200
)

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"usdt":          format.USDT,
		"currency":      format.Currency,
		"count":         format.Count,
		"profits":       format.Profits,
		"volume":        format.Volume,
		"price":         format.Price,
		"percent":       format.Percent,
		"signedPercent": format.SignedPercent,
		"pct":           format.DecimalPercent,
		"countdown":     format.Countdown,
		"timeAgo":       format.TimeAgo,
		"stars":         testimonial.Stars,
		"list5":         func() []int { return []int{5, 4, 3, 2, 1} },
	}
	return template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

type calculatorView struct {
	Amount   string
	Compound bool
	Period   int
	Periods  []int
	Notice   string
	Valid    bool
	Message  string
	Rows     []projection.Projection
	Chart    chartView
	Export   string
}

type chartView struct {
	Width    int
	Height   int
	Polyline string
	Final    decimal.Decimal
}

type dashboardView struct {
	Stats       dashboard.Stats
	Countdown   dashboard.Countdown
	Connections int
}

type pageView struct {
	Content      content.Content
	Now          time.Time
	Calculator   calculatorView
	Dashboard    dashboardView
	Market       feed.MarketSnapshot
	Network      feed.NetworkStatus
	Performance  feed.PerformanceSnapshot
	Activity     []feed.Activity
	Testimonials []testimonial.Testimonial
	Summary      testimonial.Summary
	ReviewError  string
	ReviewAdded  bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount := defaultAmount
	if q.Has("amount") {
		amount = q.Get("amount")
	}
	mode, _ := projection.ParseMode(q.Get("mode"))
	period, err := parseSeriesDays(q.Get("period"))
	if err != nil {
		period = defaultSeriesDays
	}

	view := pageView{
		Content:      s.deps.Content,
		Now:          s.deps.Clock.Now(),
		Calculator:   s.calculator(amount, mode, period),
		Dashboard:    dashboardView{Stats: s.deps.Dashboard.Snapshot(), Countdown: s.deps.Dashboard.Countdown(), Connections: s.deps.Dashboard.ActiveConnections()},
		Market:       s.deps.Market.Snapshot(),
		Network:      s.deps.Network.Snapshot(),
		Performance:  s.deps.Performance.Snapshot(),
		Activity:     s.deps.Activity.Snapshot(),
		Testimonials: s.deps.Board.List(),
		Summary:      s.deps.Board.Summary(),
		ReviewError:  q.Get("review_error"),
		ReviewAdded:  q.Get("review") == "added",
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, view); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) calculator(amount string, mode projection.Mode, period int) calculatorView {
	res := s.deps.Projector.ProjectInput(amount, mode)
	s.deps.Metrics.RecordProjection(res.Valid)

	view := calculatorView{
		Amount:   amount,
		Compound: mode == projection.Compound,
		Period:   period,
		Periods:  seriesPeriods,
		Notice:   s.deps.Projector.MinimumNotice(),
		Valid:    res.Valid,
		Message:  res.Message,
		Rows:     res.Projections,
	}
	if res.Valid {
		principal, _ := projection.ParsePrincipal(amount)
		view.Chart = newChart(s.deps.Projector.Series(principal, mode, period))
		view.Export = "/api/projections/export?" + url.Values{
			"amount": {amount},
			"mode":   {mode.String()},
			"days":   {strconv.Itoa(period)},
		}.Encode()
	}
	return view
}

// newChart scales a balance series into an SVG polyline.
func newChart(points []projection.Point) chartView {
	chart := chartView{Width: chartWidth, Height: chartHeight}
	if len(points) < 2 {
		return chart
	}
	lo := points[0].Balance.InexactFloat64()
	hi := points[len(points)-1].Balance.InexactFloat64()
	span := hi - lo
	lastDay := float64(points[len(points)-1].Day)

	coords := make([]string, 0, len(points))
	for _, p := range points {
		x := float64(p.Day) / lastDay * chartWidth
		y := float64(chartHeight)
		if span > 0 {
			y = chartHeight - (p.Balance.InexactFloat64()-lo)/span*chartHeight
		}
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	chart.Polyline = strings.Join(coords, " ")
	chart.Final = points[len(points)-1].Balance
	return chart
}

func (s *Server) handleTestimonialForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	rating := 0
	if raw := strings.TrimSpace(r.PostForm.Get("rating")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			n = -1
		}
		rating = n
	}

	_, err := s.deps.Board.Add(testimonial.Submission{
		Username: r.PostForm.Get("username"),
		Comment:  r.PostForm.Get("comment"),
		Rating:   rating,
	})
	s.deps.Metrics.RecordTestimonial(err == nil)

	target := "/?review=added#testimonials"
	if err != nil {
		if !testimonial.IsValidationError(err) {
			s.logger.Error("Failed to add testimonial", zap.Error(err))
		}
		target = "/?review_error=" + url.QueryEscape(err.Error()) + "#testimonials"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
