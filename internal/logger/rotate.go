// internal/logger/rotate.go
package logger

import (
	"errors"
	"os"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the rotating file logger.
type Config struct {
	LogFile     string
	MaxSize     int  // megabytes
	MaxAge      int  // days
	MaxBackups  int  // files
	Compress    bool // gzip rotated files
	Development bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogFile:    "logs/rogue-runner.log",
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
}

// Logger extends zap.Logger with a rotating JSON file.
type Logger struct {
	*zap.Logger
	config *Config
}

// New writes coloured console output and rotated JSON lines to cfg.LogFile.
func New(cfg *Config) (*Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.LogFile == "" {
		return nil, errors.New("log file path is required")
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	fileConfig := zap.NewProductionEncoderConfig()
	fileConfig.TimeKey = "timestamp"
	fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	fileConfig.EncodeDuration = zapcore.StringDurationEncoder
	fileConfig.EncodeCaller = zapcore.ShortCallerEncoder

	level := levelFor(cfg.Development)
	core := zapcore.NewTee(
		&FieldFilterCore{
			core: zapcore.NewCore(PrettyEncoder(), zapcore.AddSync(zapcore.Lock(os.Stdout)), level),
			drop: noisyFields,
		},
		zapcore.NewCore(zapcore.NewJSONEncoder(fileConfig), zapcore.AddSync(rotator), level),
	)

	return &Logger{
		Logger: zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		),
		config: cfg,
	}, nil
}

// NewConsole wraps the pretty console logger so callers get the same Sync
// behaviour whether or not a log file is configured.
func NewConsole(debug bool) (*Logger, error) {
	l, err := CreatePrettyLogger(debug)
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: l}, nil
}

// Sync ignores the errors stdout returns when it is a terminal.
func (l *Logger) Sync() error {
	err := l.Logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
