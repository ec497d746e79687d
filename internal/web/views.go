package web

import (
	"time"

	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/format"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
	"github.com/rovshanmuradov/rogue-runner/internal/testimonial"
)

// Decimal amounts leave the API as fixed two-place strings.

type projectionView struct {
	Label         string `json:"label"`
	Days          int    `json:"days"`
	Principal     string `json:"principal"`
	GrossTotal    string `json:"grossTotal"`
	GrossProfit   string `json:"grossProfit"`
	Fees          string `json:"fees"`
	NetProfit     string `json:"netProfit"`
	NetTotal      string `json:"netTotal"`
	ROI           string `json:"roi"`
	AnnualizedROI string `json:"annualizedRoi"`
}

type projectionsResponse struct {
	Valid       bool             `json:"valid"`
	Message     string           `json:"message,omitempty"`
	Mode        string           `json:"mode"`
	Minimum     string           `json:"minimum"`
	Projections []projectionView `json:"projections"`
}

type pointView struct {
	Day     int    `json:"day"`
	Balance string `json:"balance"`
	Profit  string `json:"profit"`
}

type seriesResponse struct {
	Valid   bool        `json:"valid"`
	Message string      `json:"message,omitempty"`
	Mode    string      `json:"mode"`
	Days    int         `json:"days"`
	Points  []pointView `json:"points"`
}

type countdownView struct {
	Seconds int64  `json:"seconds"`
	Label   string `json:"label"`
}

type dashboardResponse struct {
	ActiveUsers       int                      `json:"activeUsers"`
	TotalProfits      float64                  `json:"totalProfits"`
	TradesExecuted    int                      `json:"tradesExecuted"`
	SuccessRate       float64                  `json:"successRate"`
	ActiveConnections int                      `json:"activeConnections"`
	LastUpdate        time.Time                `json:"lastUpdate"`
	NextIncrease      map[string]countdownView `json:"nextIncrease"`
}

type testimonialsResponse struct {
	Items   []testimonial.Testimonial `json:"items"`
	Summary testimonial.Summary       `json:"summary"`
}

func newProjectionView(p projection.Projection) projectionView {
	return projectionView{
		Label:         p.Label,
		Days:          p.Days,
		Principal:     p.Principal.StringFixed(2),
		GrossTotal:    p.GrossTotal.StringFixed(2),
		GrossProfit:   p.GrossProfit.StringFixed(2),
		Fees:          p.Fees.StringFixed(2),
		NetProfit:     p.NetProfit.StringFixed(2),
		NetTotal:      p.NetTotal.StringFixed(2),
		ROI:           p.ROI.StringFixed(2),
		AnnualizedROI: p.AnnualizedROI.StringFixed(2),
	}
}

func newProjectionsResponse(res projection.Result, minimum string) projectionsResponse {
	views := make([]projectionView, 0, len(res.Projections))
	for _, p := range res.Projections {
		views = append(views, newProjectionView(p))
	}
	return projectionsResponse{
		Valid:       res.Valid,
		Message:     res.Message,
		Mode:        res.Mode.String(),
		Minimum:     minimum,
		Projections: views,
	}
}

func newPointViews(points []projection.Point) []pointView {
	views := make([]pointView, 0, len(points))
	for _, p := range points {
		views = append(views, pointView{
			Day:     p.Day,
			Balance: p.Balance.StringFixed(2),
			Profit:  p.Profit.StringFixed(2),
		})
	}
	return views
}

func newCountdownView(d time.Duration) countdownView {
	return countdownView{Seconds: int64(d / time.Second), Label: format.Countdown(d)}
}

func newDashboardResponse(store *dashboard.Store) dashboardResponse {
	stats := store.Snapshot()
	cd := store.Countdown()
	return dashboardResponse{
		ActiveUsers:       stats.ActiveUsers,
		TotalProfits:      stats.TotalProfits,
		TradesExecuted:    stats.TradesExecuted,
		SuccessRate:       stats.SuccessRate,
		ActiveConnections: store.ActiveConnections(),
		LastUpdate:        stats.LastUpdate,
		NextIncrease: map[string]countdownView{
			string(dashboard.MetricUsers):   newCountdownView(cd.Users),
			string(dashboard.MetricProfits): newCountdownView(cd.Profits),
			string(dashboard.MetricTrades):  newCountdownView(cd.Trades),
		},
	}
}
