package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/app"
	"github.com/rovshanmuradov/rogue-runner/internal/config"
	"github.com/rovshanmuradov/rogue-runner/internal/export"
	"github.com/rovshanmuradov/rogue-runner/internal/logger"
	"github.com/rovshanmuradov/rogue-runner/internal/ui"
)

const logBufferSize = 1000

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	envPath := flag.String("env", ".env", "Path to .env file")
	exportDir := flag.String("export-dir", "exports", "Directory for calculator CSV exports")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("Failed to load %s: %v", *envPath, err)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Logs go to the buffer only, so nothing breaks the alternate screen.
	logs := logger.NewLogBuffer(logBufferSize)
	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, logs)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	bus := ui.NewBus(0, appLogger.Named("ui"))
	sp := app.NewServiceProvider(cfg, appLogger,
		app.WithAdvanceHook(bus.DashboardHook),
		app.WithFeedHook(bus.FeedHook))
	sp.ShutdownHandler().Add("ui bus", bus)

	services, err := buildServices(rootCtx, sp, logs, appLogger, *exportDir)
	if err != nil {
		log.Fatalf("Failed to build services: %v", err)
	}
	if err := sp.StartSimulation(rootCtx); err != nil {
		log.Fatalf("Failed to start simulation: %v", err)
	}

	appLogger.Info("Starting Rogue Runner TUI", zap.String("storage", cfg.Storage.Backend))

	supervisor := ui.NewSupervisor(func() (tea.Model, []tea.ProgramOption) {
		return NewAppModel(services, bus), []tea.ProgramOption{tea.WithAltScreen()}
	}, appLogger.Named("ui"))
	runErr := supervisor.Run(rootCtx)

	shutdownErr := sp.ShutdownHandler().Shutdown(context.Background())
	if runErr != nil {
		log.Fatalf("TUI failed: %v", runErr)
	}
	if shutdownErr != nil {
		log.Fatalf("Shutdown failed: %v", shutdownErr)
	}
}

func buildServices(ctx context.Context, sp *app.ServiceProvider, logs *logger.LogBuffer, appLogger *zap.Logger, exportDir string) (ui.Services, error) {
	store, err := sp.DashboardStore(ctx)
	if err != nil {
		return ui.Services{}, err
	}
	board, err := sp.Board()
	if err != nil {
		return ui.Services{}, err
	}
	return ui.Services{
		Projector:   sp.Projector(),
		Dashboard:   store,
		Market:      sp.Market(),
		Network:     sp.Network(),
		Performance: sp.Performance(),
		Activity:    sp.Activity(),
		Board:       board,
		Logs:        logs,
		Exporter:    export.NewScheduleExporter(appLogger.Named("export")),
		ExportDir:   exportDir,
		Clock:       sp.Clock(),
		Logger:      appLogger.Named("ui"),
	}, nil
}
