// Package monitor wires admission and relay of inbound messages
package monitor

import (
	"go.uber.org/fx"

	channelbusiness "github.com/stavropolsky/tg-track/internal/domain/channel/usecase/business"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/deps"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/handlers"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/usecase/business"
	registrydeps "github.com/stavropolsky/tg-track/internal/domain/registry/deps"
)

// Module provides monitor domain components for fx DI.
// It expects deps.DestinationSender and deps.RelayPublisher from infrastructure.
var Module = fx.Module("monitor",
	fx.Provide(
		provideAdmissionRegistry,
		provideDestinationLocator,
		business.NewFilter,
		business.NewEngine,
		business.NewPipeline,
	),
	handlers.Module,
)

func provideAdmissionRegistry(registry registrydeps.Registry) deps.AdmissionRegistry {
	return registry
}

func provideDestinationLocator(destination *channelbusiness.Destination) deps.DestinationLocator {
	return destination
}
