// Package channel wires channel resolution
package channel

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/config"
	"github.com/stavropolsky/tg-track/internal/domain/channel/usecase/business"
)

// Module provides channel resolution components for fx DI.
// It expects deps.ChatFetcher from the telegram infrastructure.
var Module = fx.Module("channel",
	fx.Provide(
		business.NewResolver,
		provideDestination,
	),
)

func provideDestination(resolver *business.Resolver, cfg *config.RelayConfig, logger zerolog.Logger) *business.Destination {
	logger.Info().Str("destination", cfg.Destination).Msg("Relay destination configured")
	return business.NewDestination(resolver, cfg.Destination)
}
