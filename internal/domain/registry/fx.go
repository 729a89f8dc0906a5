// Package registry wires the tracked channel, keyword and blacklist store
package registry

import (
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/internal/domain/registry/repository/postgres"
)

// Module provides registry components for fx DI
var Module = fx.Module("registry",
	fx.Provide(postgres.NewRepository),
)
