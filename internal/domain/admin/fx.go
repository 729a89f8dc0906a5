// Package admin contains the operator command domain module
package admin

import (
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/internal/domain/admin/delivery/telegram"
	"github.com/stavropolsky/tg-track/internal/domain/admin/deps"
	"github.com/stavropolsky/tg-track/internal/domain/admin/usecase/business"
	channeldeps "github.com/stavropolsky/tg-track/internal/domain/channel/deps"
	channelbusiness "github.com/stavropolsky/tg-track/internal/domain/channel/usecase/business"
	"github.com/stavropolsky/tg-track/internal/infrastructure/bot"
)

// Module provides admin domain components for fx dependency injection.
// It expects deps.Replier and the channel platform deps from infrastructure.
var Module = fx.Module("admin",
	fx.Provide(
		provideChannelResolver,
		provideDestinationLocator,
		provideUserLookup,
		provideChannelJoiner,
		business.NewUseCase,
		telegram.NewHandlers,
		telegram.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

func provideChannelResolver(resolver *channelbusiness.Resolver) deps.ChannelResolver {
	return resolver
}

func provideDestinationLocator(destination *channelbusiness.Destination) deps.DestinationLocator {
	return destination
}

func provideUserLookup(users channeldeps.UserLookup) deps.UserLookup {
	return users
}

func provideChannelJoiner(joiner channeldeps.ChannelJoiner) deps.ChannelJoiner {
	return joiner
}

// registerRoutes registers command routes on the raw bot
func registerRoutes(router *telegram.Router, b *bot.Bot) {
	router.RegisterRoutes(b.Raw())
}
