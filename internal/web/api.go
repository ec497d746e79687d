package web

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/export"
	"github.com/rovshanmuradov/rogue-runner/internal/logger"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
	"github.com/rovshanmuradov/rogue-runner/internal/testimonial"
)

// Chart periods offered next to the calculator.
var seriesPeriods = []int{30, 90}

const defaultSeriesDays = 90

func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	defer logger.TrackPerformance(s.logger, "project")()
	mode, _ := projection.ParseMode(r.URL.Query().Get("mode"))
	res := s.deps.Projector.ProjectInput(r.URL.Query().Get("amount"), mode)
	s.deps.Metrics.RecordProjection(res.Valid)

	writeJSON(w, http.StatusOK, newProjectionsResponse(res, s.deps.Projector.MinimumNotice()))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	defer logger.TrackPerformance(s.logger, "project_series")()
	q := r.URL.Query()
	mode, _ := projection.ParseMode(q.Get("mode"))

	days, err := parseSeriesDays(q.Get("days"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := seriesResponse{Mode: mode.String(), Days: days, Points: []pointView{}}
	principal, err := projection.ParsePrincipal(q.Get("amount"))
	if err != nil || !s.deps.Projector.Valid(principal) {
		resp.Message = s.deps.Projector.Guidance()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Valid = true
	resp.Points = newPointViews(s.deps.Projector.Series(principal, mode, days))
	writeJSON(w, http.StatusOK, resp)
}

// handleExport downloads the balance schedule as CSV or JSON.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	defer logger.TrackPerformance(s.logger, "export_schedule")()
	q := r.URL.Query()
	mode, _ := projection.ParseMode(q.Get("mode"))

	days, err := parseSeriesDays(q.Get("days"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	principal, err := projection.ParsePrincipal(q.Get("amount"))
	if err != nil || !s.deps.Projector.Valid(principal) {
		writeError(w, http.StatusUnprocessableEntity, s.deps.Projector.Guidance())
		return
	}

	schedule := export.Schedule{
		Principal:   principal,
		Mode:        mode,
		Days:        days,
		Points:      s.deps.Projector.Series(principal, mode, days),
		GeneratedAt: s.deps.Clock.Now(),
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+schedule.Filename(format)+`"`)
	if err := s.exporter.Write(w, schedule, format); err != nil {
		s.logger.Error("Failed to export schedule", zap.Error(err))
	}
}

type badPeriodError string

func (e badPeriodError) Error() string { return "days must be 30 or 90, got " + strconv.Quote(string(e)) }

func parseSeriesDays(raw string) (int, error) {
	if raw == "" {
		return defaultSeriesDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badPeriodError(raw)
	}
	for _, p := range seriesPeriods {
		if p == days {
			return days, nil
		}
	}
	return 0, badPeriodError(raw)
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newDashboardResponse(s.deps.Dashboard))
}

func (s *Server) handleMarket(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Market.Snapshot())
}

func (s *Server) handleNetwork(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Network.Snapshot())
}

func (s *Server) handlePerformance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Performance.Snapshot())
}

func (s *Server) handleActivity(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Activity.Snapshot())
}

func (s *Server) handleListTestimonials(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, testimonialsResponse{
		Items:   s.deps.Board.List(),
		Summary: s.deps.Board.Summary(),
	})
}

func (s *Server) handleAddTestimonial(w http.ResponseWriter, r *http.Request) {
	payload, err := decode[testimonial.Submission](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.deps.Board.Add(payload)
	s.deps.Metrics.RecordTestimonial(err == nil)
	if err != nil {
		if testimonial.IsValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("Failed to add testimonial", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to add testimonial")
		return
	}

	writeJSON(w, http.StatusCreated, t)
}
