package ui

import (
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/export"
	"github.com/rovshanmuradov/rogue-runner/internal/feed"
	"github.com/rovshanmuradov/rogue-runner/internal/logger"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
	"github.com/rovshanmuradov/rogue-runner/internal/testimonial"
)

// Services are the read models the screens render. Logs and Exporter may
// be nil.
type Services struct {
	Projector   *projection.Projector
	Dashboard   *dashboard.Store
	Market      *feed.Market
	Network     *feed.Network
	Performance *feed.Performance
	Activity    *feed.ActivityFeed
	Board       *testimonial.Board
	Logs        *logger.LogBuffer
	Exporter    *export.ScheduleExporter
	ExportDir   string
	Clock       clock.Clock
	Logger      *zap.Logger
}
