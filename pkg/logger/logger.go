package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"college-erp/config"
)

// NewLogger builds a zap logger from the log config. Every entry carries
// the app name so the server and the admin CLI can share one sink.
func NewLogger(cfg *config.LogConfig, app string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.DisableStacktrace = true
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "ts"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if level == zapcore.DebugLevel {
			// keep every line while debugging
			zapCfg.Sampling = nil
		}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if app != "" {
		logger = logger.With(zap.String("app", app))
	}
	return logger, nil
}

// Email logs an address with the local part masked, keeping the domain
// that identifies the college.
func Email(email string) zap.Field {
	return zap.String("email", MaskEmail(email))
}

// MaskEmail keeps the first character of the local part.
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
