// Package app wires the landing site together and runs it until a signal or
// context cancellation asks it to stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/rogue-runner/internal/config"
)

const readHeaderTimeout = 10 * time.Second

type App struct {
	provider *ServiceProvider
	logger   *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *App {
	return &App{
		provider: NewServiceProvider(cfg, logger, opts...),
		logger:   logger,
	}
}

func (a *App) Provider() *ServiceProvider { return a.provider }

// Run listens on the configured address and serves until SIGINT, SIGTERM or
// ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.provider.Config().HTTPAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.provider.Config().HTTPAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener. It always releases every registered
// service before returning.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := a.provider.ShutdownHandler()

	handler, err := a.provider.Server(ctx)
	if err != nil {
		ln.Close()
		return errors.Join(err, shutdown.Shutdown(context.Background()))
	}
	if err := a.provider.StartSimulation(ctx); err != nil {
		ln.Close()
		return errors.Join(err, shutdown.Shutdown(context.Background()))
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("Starting server", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdown.Timeout())
		defer cancel()

		serverErr := srv.Shutdown(shutdownCtx)
		if serverErr != nil {
			serverErr = fmt.Errorf("http server: %w", serverErr)
		}
		return errors.Join(serverErr, shutdown.Shutdown(shutdownCtx))
	})

	return g.Wait()
}
