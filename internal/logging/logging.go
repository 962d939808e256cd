// Package logging provides structured logging configuration.
package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration options.
type Config struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

// New creates a new configured zap logger. Output always goes to stderr so
// that stdout only carries command output.
func New(cfg Config) (*zap.Logger, error) {
	zcfg, err := buildConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := zcfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", "mobsf")), nil
}

func buildConfig(cfg Config) (zap.Config, error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
			return zap.Config{}, err
		}
	}

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "console"
	}

	var zcfg zap.Config
	if format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}

	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableStacktrace = true
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.EncoderConfig.TimeKey = "ts"
	zcfg.EncoderConfig.LevelKey = "level"
	zcfg.EncoderConfig.MessageKey = "msg"
	zcfg.EncoderConfig.CallerKey = "caller"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zcfg, nil
}

// Sync flushes any buffered log entries.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}

// FromEnv creates a Config from environment variables.
func FromEnv() Config {
	return Config{
		Level:  getenv("MOBSF_LOG_LEVEL", "warn"),
		Format: getenv("MOBSF_LOG_FORMAT", "console"),
	}
}

func getenv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// Component returns a zap field for the component name.
func Component(name string) zap.Field { return zap.String("component", name) }

// InvocationID returns a zap field identifying one CLI invocation.
func InvocationID(id string) zap.Field { return zap.String("invocation_id", id) }

// Method returns a zap field for an HTTP method.
func Method(method string) zap.Field { return zap.String("method", method) }

// Path returns a zap field for an API path.
func Path(path string) zap.Field { return zap.String("path", path) }

// Status returns a zap field for an HTTP status code.
func Status(code int) zap.Field { return zap.Int("status", code) }

// Duration returns a zap field for a request duration.
func Duration(d time.Duration) zap.Field { return zap.Duration("duration", d) }

// Server returns a zap field for the scanning service base URL.
func Server(url string) zap.Field { return zap.String("server", url) }

// Hash returns a zap field for a scan hash.
func Hash(hash string) zap.Field { return zap.String("hash", hash) }

// File returns a zap field for a local file path.
func File(path string) zap.Field { return zap.String("file", path) }

// Bytes returns a zap field for a byte count.
func Bytes(n int64) zap.Field { return zap.Int64("bytes", n) }

// APIKey returns a zap field carrying a redacted API key.
func APIKey(redacted string) zap.Field { return zap.String("api_key", redacted) }
