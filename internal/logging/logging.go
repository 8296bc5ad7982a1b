package logging

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger.
// level: "debug", "info", "warn", "error" (default "info").
// format: "json" or "console" (default "json").
// path: a file to append to; empty means stderr.
func New(level, format, path string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// Sampling hides repeated request logs that matter when debugging a screen.
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	sink := "stderr"
	if p := strings.TrimSpace(path); p != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, err
		}
		sink = p
	}
	cfg.OutputPaths = []string{sink}
	cfg.ErrorOutputPaths = []string{sink}

	return cfg.Build(zap.Fields(zap.String("app", "jendo")))
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
