package domain

import (
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/internal/domain/admin"
	"github.com/stavropolsky/tg-track/internal/domain/channel"
	"github.com/stavropolsky/tg-track/internal/domain/monitor"
	"github.com/stavropolsky/tg-track/internal/domain/registry"
)

// Module aggregates all domain modules
var Module = fx.Module("domain",
	registry.Module,
	channel.Module,
	monitor.Module,
	admin.Module,
)
