package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. The dev environment gets the
// human-readable console encoder; everything else logs production JSON.
func New(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.EqualFold(strings.TrimSpace(env), "dev") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
