// Package web serves the landing page and its JSON API.
package web

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/content"
	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/export"
	"github.com/rovshanmuradov/rogue-runner/internal/feed"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
	"github.com/rovshanmuradov/rogue-runner/internal/testimonial"
	"github.com/rovshanmuradov/rogue-runner/internal/utils/metrics"
)

// Deps are the services the handlers read from. All fields are required.
type Deps struct {
	Content     content.Content
	Projector   *projection.Projector
	Dashboard   *dashboard.Store
	Market      *feed.Market
	Network     *feed.Network
	Performance *feed.Performance
	Activity    *feed.ActivityFeed
	Board       *testimonial.Board
	Metrics     *metrics.Collector
	Clock       clock.Clock

	AllowedOrigins []string
}

type Server struct {
	deps     Deps
	page     *template.Template
	exporter *export.ScheduleExporter
	router   chi.Router
	logger   *zap.Logger
}

func NewServer(deps Deps, logger *zap.Logger) (*Server, error) {
	page, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		deps:     deps,
		page:     page,
		exporter: export.NewScheduleExporter(logger.Named("export")),
		logger:   logger.Named("web"),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.observe)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/", s.handleIndex)
	r.Post("/testimonials", s.handleTestimonialForm)

	r.Route("/api", func(rr chi.Router) {
		rr.Get("/projections", s.handleProjections)
		rr.Get("/projections/series", s.handleSeries)
		rr.Get("/projections/export", s.handleExport)
		rr.Get("/dashboard", s.handleDashboard)
		rr.Get("/market", s.handleMarket)
		rr.Get("/network", s.handleNetwork)
		rr.Get("/performance", s.handlePerformance)
		rr.Get("/activity", s.handleActivity)
		rr.Get("/testimonials", s.handleListTestimonials)
		rr.Post("/testimonials", s.handleAddTestimonial)
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())

	return r
}

// observe records every request by its route pattern, not its raw path.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.deps.Metrics.RecordRequest(route, r.Method, status, elapsed)
		s.logger.Debug("Request served",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("Handler panic",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"))
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.deps.Clock.Now().UnixMilli(),
	})
}
