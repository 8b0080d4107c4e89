// Package logger builds the zap logger shared by the game's infrastructure.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
	Encoding    string `mapstructure:"encoding"` // json or console
	// OutputPath is a file path, "stderr" or "stdout". The terminal UI owns
	// stdout, so the default is a file.
	OutputPath string `mapstructure:"output_path"`
}

// DefaultConfig logs at info level to vpet.log in dir
func DefaultConfig(dir string) Config {
	return Config{
		Level:       "info",
		Environment: "production",
		Encoding:    "json",
		OutputPath:  filepath.Join(dir, "vpet.log"),
	}
}

// ParseLevel parses a string log level, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a logger. The returned func flushes and closes the output.
func New(cfg Config) (*zap.Logger, func(), error) {
	if cfg.Encoding == "" {
		cfg.Encoding = "console"
		if cfg.Environment == "production" {
			cfg.Encoding = "json"
		}
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "stderr"
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Environment == "production" {
		encoderConfig = zap.NewProductionEncoderConfig()
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	if cfg.OutputPath != "stderr" && cfg.OutputPath != "stdout" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
			return nil, nil, oops.Code("LOGGER_INIT").In("logger").Wrapf(err, "creating log directory")
		}
	}
	sink, closeSink, err := zap.Open(cfg.OutputPath)
	if err != nil {
		return nil, nil, oops.Code("LOGGER_INIT").In("logger").With("path", cfg.OutputPath).Wrapf(err, "opening log output")
	}

	core := zapcore.NewCore(encoder, sink, ParseLevel(cfg.Level))
	l := zap.New(core, zap.AddCaller())
	return l, func() {
		_ = l.Sync()
		closeSink()
	}, nil
}

// WithComponent adds a component field to help identify log sources
func WithComponent(l *zap.Logger, component string) *zap.Logger {
	return l.With(zap.String("component", component))
}
