package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

func provideLogger(cfg *config.LoggingConfig, service *config.ServiceConfig) zerolog.Logger {
	return New(cfg.Level, cfg.Format).With().Str("service", service.Name).Logger()
}
