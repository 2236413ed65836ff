package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"

	// RayIDKey is both the fiber locals key and the log field name.
	RayIDKey     = "ray_id"
	componentKey = "component"
)

// New builds a zap logger from cfg. The debug level selects zap's
// development preset; an unrecognised level falls back to info.
func New(cfg *Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Level == "debug" {
		zc = zap.NewDevelopmentConfig()
	} else if lvl, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	switch cfg.Format {
	case FormatConsole:
		zc.Encoding = FormatConsole
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	case FormatJSON, "":
		zc.Encoding = FormatJSON
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.LevelKey = "level"
	zc.EncoderConfig.MessageKey = "message"

	return zc.Build()
}

// Component tags l with the emitting subsystem. A nil l yields a no-op logger.
func Component(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return l.With(zap.String(componentKey, name))
}

// WithRayID returns l with the request's ray id attached, or l unchanged
// when the request carries none.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid, ok := c.Locals(RayIDKey).(string); ok && rid != "" {
		return l.With(zap.String(RayIDKey, rid))
	}
	return l
}
