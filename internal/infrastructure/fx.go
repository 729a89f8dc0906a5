package infrastructure

import (
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/internal/infrastructure/bot"
	"github.com/stavropolsky/tg-track/internal/infrastructure/database"
	httpfx "github.com/stavropolsky/tg-track/internal/infrastructure/http"
	"github.com/stavropolsky/tg-track/internal/infrastructure/kafka"
	"github.com/stavropolsky/tg-track/internal/infrastructure/logger"
	"github.com/stavropolsky/tg-track/internal/infrastructure/metrics"
	"github.com/stavropolsky/tg-track/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module, // Must be before telegram (telegram depends on *gorm.DB)
	metrics.Module,
	telegram.Module,
	bot.Module,
	kafka.Module,
	httpfx.Module,
)
