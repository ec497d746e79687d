// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/rogue-runner/internal/dashboard"
	"github.com/rovshanmuradov/rogue-runner/internal/feed"
	"github.com/rovshanmuradov/rogue-runner/internal/projection"
)

const EnvPrefix = "ROGUE_RUNNER"

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPAddr        string           `mapstructure:"http_addr"`
	DebugLogging    bool             `mapstructure:"debug_logging"`
	LogFile         string           `mapstructure:"log_file"`
	AllowedOrigins  []string         `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration    `mapstructure:"shutdown_timeout"`
	Seed            uint64           `mapstructure:"seed"`
	Calculator      CalculatorConfig `mapstructure:"calculator"`
	Dashboard       DashboardConfig  `mapstructure:"dashboard"`
	Feeds           FeedsConfig      `mapstructure:"feeds"`
	Storage         StorageConfig    `mapstructure:"storage"`
}

type CalculatorConfig struct {
	DailyRate   float64 `mapstructure:"daily_rate"`
	FeeRate     float64 `mapstructure:"fee_rate"`
	Minimum     float64 `mapstructure:"minimum"`
	IncludeYear bool    `mapstructure:"include_year"`
}

type DashboardConfig struct {
	TickInterval   time.Duration `mapstructure:"tick_interval"`
	UserInterval   time.Duration `mapstructure:"user_interval"`
	ProfitInterval time.Duration `mapstructure:"profit_interval"`
	TradeInterval  time.Duration `mapstructure:"trade_interval"`
}

type FeedsConfig struct {
	MarketInterval      time.Duration `mapstructure:"market_interval"`
	NetworkInterval     time.Duration `mapstructure:"network_interval"`
	PerformanceInterval time.Duration `mapstructure:"performance_interval"`
	ActivityInterval    time.Duration `mapstructure:"activity_interval"`
}

type StorageConfig struct {
	Backend        string        `mapstructure:"backend"`
	Key            string        `mapstructure:"key"`
	FileDir        string        `mapstructure:"file_dir"`
	RedisAddr      string        `mapstructure:"redis_addr"`
	RedisPassword  string        `mapstructure:"redis_password"`
	RedisDB        int           `mapstructure:"redis_db"`
	RedisPrefix    string        `mapstructure:"redis_prefix"`
	PostgresURL    string        `mapstructure:"postgres_url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

const (
	DefaultHTTPAddr        = ":8080"
	DefaultLogFile         = "logs/rogue-runner.log"
	DefaultShutdownTimeout = 15 * time.Second
	DefaultConnectTimeout  = 30 * time.Second
)

func defaults() map[string]any {
	params := projection.DefaultParams()
	return map[string]any{
		"http_addr":        DefaultHTTPAddr,
		"debug_logging":    false,
		"log_file":         DefaultLogFile,
		"allowed_origins":  []string{"*"},
		"shutdown_timeout": DefaultShutdownTimeout,
		"seed":             0,

		"calculator.daily_rate":   params.DailyRate.InexactFloat64(),
		"calculator.fee_rate":     params.FeeRate.InexactFloat64(),
		"calculator.minimum":      params.Minimum.InexactFloat64(),
		"calculator.include_year": false,

		"dashboard.tick_interval":   dashboard.DefaultTickInterval,
		"dashboard.user_interval":   dashboard.DefaultIntervals.Users,
		"dashboard.profit_interval": dashboard.DefaultIntervals.Profits,
		"dashboard.trade_interval":  dashboard.DefaultIntervals.Trades,

		"feeds.market_interval":      feed.DefaultMarketInterval,
		"feeds.network_interval":     feed.DefaultNetworkInterval,
		"feeds.performance_interval": feed.DefaultPerformanceInterval,
		"feeds.activity_interval":    feed.DefaultActivityInterval,

		"storage.backend":         BackendFile,
		"storage.key":             dashboard.DefaultKey,
		"storage.file_dir":        "data",
		"storage.redis_addr":      "localhost:6379",
		"storage.redis_password":  "",
		"storage.redis_db":        0,
		"storage.redis_prefix":    "rogue_runner:",
		"storage.postgres_url":    "",
		"storage.connect_timeout": DefaultConnectTimeout,
	}
}

// LoadDotEnv loads a .env file into the process environment. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// LoadConfig reads an optional config file (JSON, YAML or TOML by extension)
// and applies ROGUE_RUNNER_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

// loadEnvironmentVariables handles values viper cannot split on its own.
func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	envOrigins := v.GetString("ALLOWED_ORIGINS")
	if envOrigins == "" {
		return
	}
	var origins []string
	for _, o := range strings.Split(envOrigins, ",") {
		if clean := strings.TrimSpace(o); clean != "" {
			origins = append(origins, clean)
		}
	}
	if len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return errors.New("http_addr is empty")
	}
	if err := cfg.Calculator.Params().Validate(); err != nil {
		return fmt.Errorf("invalid calculator settings: %w", err)
	}
	if err := validateIntervals(cfg); err != nil {
		return err
	}
	return validateStorage(&cfg.Storage)
}

func validateIntervals(cfg *Config) error {
	intervals := map[string]time.Duration{
		"dashboard.tick_interval":    cfg.Dashboard.TickInterval,
		"dashboard.user_interval":    cfg.Dashboard.UserInterval,
		"dashboard.profit_interval":  cfg.Dashboard.ProfitInterval,
		"dashboard.trade_interval":   cfg.Dashboard.TradeInterval,
		"feeds.market_interval":      cfg.Feeds.MarketInterval,
		"feeds.network_interval":     cfg.Feeds.NetworkInterval,
		"feeds.performance_interval": cfg.Feeds.PerformanceInterval,
		"feeds.activity_interval":    cfg.Feeds.ActivityInterval,
	}
	for name, d := range intervals {
		if d <= 0 {
			return fmt.Errorf("invalid %s: %s", name, d)
		}
	}
	return nil
}

func validateStorage(s *StorageConfig) error {
	if s.Key == "" {
		return errors.New("storage.key is empty")
	}
	switch s.Backend {
	case BackendMemory:
	case BackendFile:
		if s.FileDir == "" {
			return errors.New("storage.file_dir is required for the file backend")
		}
	case BackendRedis:
		if s.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for the redis backend")
		}
	case BackendPostgres:
		if err := validatePostgresURL(s.PostgresURL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", s.Backend)
	}
	return nil
}

func validatePostgresURL(raw string) error {
	if raw == "" {
		return errors.New("storage.postgres_url is required for the postgres backend")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid postgres URL format")
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return errors.New("invalid postgres URL protocol")
	}
	return nil
}

// Params converts the calculator settings.
func (c CalculatorConfig) Params() projection.Params {
	return projection.Params{
		DailyRate:   decimal.NewFromFloat(c.DailyRate),
		FeeRate:     decimal.NewFromFloat(c.FeeRate),
		Minimum:     decimal.NewFromFloat(c.Minimum),
		IncludeYear: c.IncludeYear,
	}
}

// Intervals converts the gating settings.
func (d DashboardConfig) Intervals() dashboard.Intervals {
	return dashboard.Intervals{
		Users:   d.UserInterval,
		Profits: d.ProfitInterval,
		Trades:  d.TradeInterval,
	}
}
