package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/stavropolsky/tg-track/config"
)

// Module provides the registry database for fx DI
var Module = fx.Module("database",
	fx.Provide(NewPostgresDBFx),
)

// NewPostgresDBFx opens the pool and brings the schema up to date. The
// registry and MTProto state tables must exist before the member account
// connects, so migrations run at construction.
func NewPostgresDBFx(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	log := logger.With().Str("component", "database").Str("database", cfg.DBName).Logger()

	db, err := NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(db, cfg.DBName); err != nil {
		return nil, err
	}
	log.Info().Str("host", cfg.Host).Msg("Database ready, migrations applied")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("database ping failed: %w", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			log.Info().Msg("Closing database pool")
			return sqlDB.Close()
		},
	})

	return db, nil
}
