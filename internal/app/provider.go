package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/rogue-runner/internal/clock"
	"github.com/rovshanmuradov/rogue-runner/internal/config"
	"github.com/rovshanmuradov/rogue-runner/internal/content"
	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/feed"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
	"github.com/rovshanmuradov/rogue-runner/internal/random"
	"github.com/rovshanmuradov/rogue-runner/internal/schedule"
	"github.com/rovshanmuradov/rogue-runner/internal/storage"
	"github.com/rovshanmuradov/rogue-runner/internal/storage/file"
	"github.com/rovshanmuradov/rogue-runner/internal/storage/memory"
	"github.com/rovshanmuradov/rogue-runner/internal/storage/pgstore"
	"github.com/rovshanmuradov/rogue-runner/internal/storage/redisstore"
	"github.com/rovshanmuradov/rogue-runner/internal/testimonial"
	"github.com/rovshanmuradov/rogue-runner/internal/utils/metrics"
	"github.com/rovshanmuradov/rogue-runner/internal/web"
)

// ServiceProvider builds every service on first use and registers anything
// that needs closing with the shutdown handler.
type ServiceProvider struct {
	cfg      *config.Config
	logger   *zap.Logger
	shutdown *ShutdownHandler

	clock     clock.Clock
	random    random.Source
	scheduler schedule.Scheduler
	kv        storage.KV
	kvClosing bool
	metrics   *metrics.Collector
	content   *content.Content

	projector *projection.Projector

	dashboardStore *dashboard.Store
	dashboardServ  *dashboard.Service

	market      *feed.Market
	network     *feed.Network
	performance *feed.Performance
	activity    *feed.ActivityFeed
	feedRunner  *feed.Runner

	board  *testimonial.Board
	server *web.Server

	advanceHooks []func([]dashboard.Metric)
	feedHooks    []func(name string)
}

// Option overrides one of the provider's building blocks.
type Option func(*ServiceProvider)

func WithClock(c clock.Clock) Option {
	return func(sp *ServiceProvider) { sp.clock = c }
}

func WithRandom(r random.Source) Option {
	return func(sp *ServiceProvider) { sp.random = r }
}

func WithScheduler(s schedule.Scheduler) Option {
	return func(sp *ServiceProvider) { sp.scheduler = s }
}

// WithKV skips opening the configured backend. The provider still closes kv
// on shutdown.
func WithKV(kv storage.KV) Option {
	return func(sp *ServiceProvider) { sp.kv = kv }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(sp *ServiceProvider) { sp.metrics = c }
}

// WithAdvanceHook is called after every dashboard tick that moved a metric.
func WithAdvanceHook(hook func([]dashboard.Metric)) Option {
	return func(sp *ServiceProvider) {
		sp.advanceHooks = append(sp.advanceHooks, hook)
	}
}

// WithFeedHook is called after every feed tick with the feed name.
func WithFeedHook(hook func(name string)) Option {
	return func(sp *ServiceProvider) {
		sp.feedHooks = append(sp.feedHooks, hook)
	}
}

func NewServiceProvider(cfg *config.Config, logger *zap.Logger, opts ...Option) *ServiceProvider {
	sp := &ServiceProvider{
		cfg:      cfg,
		logger:   logger,
		shutdown: NewShutdownHandler(logger, cfg.ShutdownTimeout),
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp
}

func (sp *ServiceProvider) Config() *config.Config { return sp.cfg }

func (sp *ServiceProvider) ShutdownHandler() *ShutdownHandler { return sp.shutdown }

func (sp *ServiceProvider) Clock() clock.Clock {
	if sp.clock == nil {
		sp.clock = clock.System{}
	}
	return sp.clock
}

func (sp *ServiceProvider) Random() random.Source {
	if sp.random == nil {
		if sp.cfg.Seed != 0 {
			sp.random = random.New(sp.cfg.Seed)
		} else {
			sp.random = random.Default()
		}
	}
	return sp.random
}

func (sp *ServiceProvider) Scheduler() schedule.Scheduler {
	if sp.scheduler == nil {
		ticker := schedule.NewTicker(sp.logger.Named("scheduler"))
		sp.shutdown.AddFunc("scheduler", func() error {
			ticker.Stop()
			return nil
		})
		sp.scheduler = ticker
	}
	return sp.scheduler
}

func (sp *ServiceProvider) Metrics() *metrics.Collector {
	if sp.metrics == nil {
		sp.metrics = metrics.NewCollector()
	}
	return sp.metrics
}

func (sp *ServiceProvider) Content() (content.Content, error) {
	if sp.content == nil {
		c, err := content.Load()
		if err != nil {
			return content.Content{}, fmt.Errorf("failed to load content: %w", err)
		}
		sp.content = &c
	}
	return *sp.content, nil
}

// KV opens the configured storage backend unless one was injected. Either
// way the store is registered for shutdown exactly once.
func (sp *ServiceProvider) KV(ctx context.Context) (storage.KV, error) {
	if sp.kv == nil {
		kv, err := openKV(ctx, sp.cfg.Storage, sp.logger.Named("storage"))
		if err != nil {
			return nil, err
		}
		sp.logger.Info("Storage ready", zap.String("backend", sp.cfg.Storage.Backend))
		sp.kv = kv
	}
	if !sp.kvClosing {
		sp.shutdown.Add("storage", sp.kv)
		sp.kvClosing = true
	}
	return sp.kv, nil
}

func openKV(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storage.KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendFile:
		store, err := file.New(cfg.FileDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendRedis:
		store, err := redisstore.Connect(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			Timeout:  cfg.ConnectTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendPostgres:
		store, err := pgstore.Connect(ctx, cfg.PostgresURL, cfg.ConnectTimeout, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func (sp *ServiceProvider) Projector() *projection.Projector {
	if sp.projector == nil {
		sp.projector = projection.NewProjector(sp.cfg.Calculator.Params())
	}
	return sp.projector
}

func (sp *ServiceProvider) DashboardStore(ctx context.Context) (*dashboard.Store, error) {
	if sp.dashboardStore == nil {
		kv, err := sp.KV(ctx)
		if err != nil {
			return nil, err
		}
		sp.dashboardStore = dashboard.NewStore(ctx, kv, sp.Clock(), sp.Random(), sp.logger.Named("dashboard"),
			dashboard.WithIntervals(sp.cfg.Dashboard.Intervals()),
			dashboard.WithKey(sp.cfg.Storage.Key))
	}
	return sp.dashboardStore, nil
}

func (sp *ServiceProvider) DashboardService(ctx context.Context) (*dashboard.Service, error) {
	if sp.dashboardServ == nil {
		store, err := sp.DashboardStore(ctx)
		if err != nil {
			return nil, err
		}
		collector := sp.Metrics()
		hooks := sp.advanceHooks
		sp.dashboardServ = dashboard.NewService(store, sp.Scheduler(), sp.cfg.Dashboard.TickInterval,
			sp.logger.Named("dashboard"), func(advanced []dashboard.Metric) {
				for _, m := range advanced {
					collector.RecordAdvance(string(m))
				}
				for _, hook := range hooks {
					hook(advanced)
				}
			})
	}
	return sp.dashboardServ, nil
}

func (sp *ServiceProvider) Market() *feed.Market {
	if sp.market == nil {
		sp.market = feed.NewMarket(sp.Random(), sp.cfg.Feeds.MarketInterval)
	}
	return sp.market
}

func (sp *ServiceProvider) Network() *feed.Network {
	if sp.network == nil {
		sp.network = feed.NewNetwork(sp.Random(), sp.cfg.Feeds.NetworkInterval)
	}
	return sp.network
}

func (sp *ServiceProvider) Performance() *feed.Performance {
	if sp.performance == nil {
		sp.performance = feed.NewPerformance(sp.Random(), sp.cfg.Feeds.PerformanceInterval)
	}
	return sp.performance
}

func (sp *ServiceProvider) Activity() *feed.ActivityFeed {
	if sp.activity == nil {
		sp.activity = feed.NewActivityFeed(sp.Random(), sp.Clock(), sp.cfg.Feeds.ActivityInterval)
	}
	return sp.activity
}

func (sp *ServiceProvider) FeedRunner() *feed.Runner {
	if sp.feedRunner == nil {
		collector := sp.Metrics()
		hooks := sp.feedHooks
		sp.feedRunner = feed.NewRunner(sp.Scheduler(), sp.logger.Named("feeds"), func(name string) {
			collector.RecordFeedTick(name)
			for _, hook := range hooks {
				hook(name)
			}
		})
	}
	return sp.feedRunner
}

func (sp *ServiceProvider) Board() (*testimonial.Board, error) {
	if sp.board == nil {
		c, err := sp.Content()
		if err != nil {
			return nil, err
		}
		sp.board = testimonial.NewBoard(c.Testimonials, sp.Clock(), sp.logger.Named("testimonials"))
	}
	return sp.board, nil
}

func (sp *ServiceProvider) Server(ctx context.Context) (*web.Server, error) {
	if sp.server != nil {
		return sp.server, nil
	}

	c, err := sp.Content()
	if err != nil {
		return nil, err
	}
	store, err := sp.DashboardStore(ctx)
	if err != nil {
		return nil, err
	}
	board, err := sp.Board()
	if err != nil {
		return nil, err
	}

	srv, err := web.NewServer(web.Deps{
		Content:        c,
		Projector:      sp.Projector(),
		Dashboard:      store,
		Market:         sp.Market(),
		Network:        sp.Network(),
		Performance:    sp.Performance(),
		Activity:       sp.Activity(),
		Board:          board,
		Metrics:        sp.Metrics(),
		Clock:          sp.Clock(),
		AllowedOrigins: sp.cfg.AllowedOrigins,
	}, sp.logger)
	if err != nil {
		return nil, err
	}
	sp.server = srv
	return sp.server, nil
}

// StartSimulation starts the dashboard ticks and every feed. Both are
// registered for shutdown.
func (sp *ServiceProvider) StartSimulation(ctx context.Context) error {
	svc, err := sp.DashboardService(ctx)
	if err != nil {
		return err
	}
	svc.Start(ctx)
	sp.shutdown.Add("dashboard", svc)

	runner := sp.FeedRunner()
	runner.Start(sp.Market(), sp.Network(), sp.Performance(), sp.Activity())
	sp.shutdown.Add("feeds", runner)
	return nil
}
