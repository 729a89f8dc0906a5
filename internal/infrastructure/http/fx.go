// Package http wires the health and metrics server
package http

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/stavropolsky/tg-track/config"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/handlers"
	"github.com/stavropolsky/tg-track/internal/infrastructure/http/server"
	"github.com/stavropolsky/tg-track/internal/infrastructure/telegram"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
	fx.Invoke(func(*server.Server) {}),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	db *gorm.DB,
	client *telegram.MTProtoClient,
	updates *handlers.MessageUpdateHandler,
	logger zerolog.Logger,
) *server.Server {
	srv := server.NewServer(serviceCfg.Name, serviceCfg.Port, logger)

	srv.RegisterMetrics()
	srv.RegisterHealth(server.NewHealthHandler(logger,
		server.HealthCheck{Name: "database", Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
		server.HealthCheck{Name: "telegram_member", Check: func(context.Context) error {
			if !client.IsConnected() {
				return errors.New("member account is not connected")
			}
			return nil
		}, Details: memberDetails(updates, time.Now)},
	).Handle)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

type updateStats interface {
	GetLastUpdateTime() time.Time
	GetProcessedCount() int64
}

// memberDetails reports how stale the member update stream is.
// The age is omitted until the first update arrives.
func memberDetails(stats updateStats, now func() time.Time) func() map[string]any {
	return func() map[string]any {
		details := map[string]any{"processed_count": stats.GetProcessedCount()}
		if last := stats.GetLastUpdateTime(); !last.IsZero() {
			details["last_update_age_seconds"] = int64(now().Sub(last).Seconds())
		}
		return details
	}
}
