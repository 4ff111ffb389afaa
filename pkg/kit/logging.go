package kit

import (
	"strings"

	"go.uber.org/zap"
)

func NewLogger(service, env, level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(env, "dev") {
		cfg = zap.NewDevelopmentConfig()
	}

	if lvl, err := zap.ParseAtomicLevel(strings.TrimSpace(level)); err == nil {
		cfg.Level = lvl
	}

	cfg.InitialFields = map[string]any{"service": service}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
