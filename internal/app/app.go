package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/config"
	"github.com/stavropolsky/tg-track/internal/domain"
	"github.com/stavropolsky/tg-track/internal/infrastructure"
)

// startTimeout covers the interactive member login, which is itself
// bounded by TELEGRAM_AUTH_TIMEOUT
const startTimeout = 10 * time.Minute

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.StartTimeout(startTimeout),
		fx.Provide(config.Out),
		infrastructure.Module,
		domain.Module,
	)
}
