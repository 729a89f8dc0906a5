package bot

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/config"
	admindeps "github.com/stavropolsky/tg-track/internal/domain/admin/deps"
	monitordeps "github.com/stavropolsky/tg-track/internal/domain/monitor/deps"
)

// Module provides the Telegram bot for fx dependency injection
var Module = fx.Module("bot",
	fx.Provide(
		provideBot,
		provideSender,
		provideReplier,
	),
	fx.Invoke(registerLifecycle),
)

// provideBot creates Telegram bot from config
func provideBot(cfg *config.BotConfig, relayCfg *config.RelayConfig, logger zerolog.Logger) (*Bot, error) {
	return NewBot(cfg.Token, relayCfg.RequestTimeout, cfg.IsAdmin, logger)
}

func provideSender(b *Bot) monitordeps.DestinationSender {
	return b
}

func provideReplier(b *Bot) admindeps.Replier {
	return b
}

// registerLifecycle registers bot lifecycle hooks
func registerLifecycle(lc fx.Lifecycle, bot *Bot) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			// Start is blocking
			go func() {
				_ = bot.Start(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cancel != nil {
				cancel()
			}
			return bot.Stop()
		},
	})
}
