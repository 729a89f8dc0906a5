package handlers

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/internal/domain/monitor/usecase/business"
	"github.com/stavropolsky/tg-track/internal/infrastructure/telegram"
)

// Module provides monitor handlers for fx DI
var Module = fx.Module("monitor-handlers",
	fx.Provide(NewMessageUpdateHandlerFx),
	fx.Invoke(registerUpdateHandler),
)

// NewMessageUpdateHandlerFx creates MessageUpdateHandler for fx DI
func NewMessageUpdateHandlerFx(pipeline *business.Pipeline, logger zerolog.Logger) *MessageUpdateHandler {
	return NewMessageUpdateHandler(pipeline, logger)
}

func registerUpdateHandler(client *telegram.MTProtoClient, handler *MessageUpdateHandler) {
	telegram.RegisterUpdateHandler(client, handler)
}
