package logger

import (
	"os"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module provides logger for fx DI
var Module = fx.Module("logger",
	fx.Provide(NewLogger),
)

// NewLogger creates a new logger from config
func NewLogger(cfg *config.LoggingConfig, svc *config.ServiceConfig) zerolog.Logger {
	return NewWithWriter(cfg.Level, cfg.Format, os.Stdout).
		With().
		Str("service", svc.Name).
		Logger()
}
