package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/app"
	"github.com/rovshanmuradov/rogue-runner/internal/config"
	"github.com/rovshanmuradov/rogue-runner/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	envPath := flag.String("env", ".env", "Path to .env file")
	flag.Parse()

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalf("Failed to load %s: %v", *envPath, err)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	appLogger.Info("Starting Rogue Runner site",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("storage", cfg.Storage.Backend))

	if err := app.New(cfg, appLogger.Logger).Run(context.Background()); err != nil {
		appLogger.Fatal("Site stopped with error", zap.Error(err))
	}
	appLogger.Info("Site stopped")
}

// newLogger writes to the console only, unless a log file is configured.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	if cfg.LogFile == "" {
		return logger.NewConsole(cfg.DebugLogging)
	}
	lc := logger.DefaultConfig()
	lc.LogFile = cfg.LogFile
	lc.Development = cfg.DebugLogging
	return logger.New(lc)
}
