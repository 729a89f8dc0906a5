package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/stavropolsky/tg-track/config"
	channeldeps "github.com/stavropolsky/tg-track/internal/domain/channel/deps"
)

// Module provides the member account client for fx DI
var Module = fx.Module("telegram",
	fx.Provide(
		NewMTProtoClientFx,
		provideChatFetcher,
		provideUserLookup,
		provideChannelJoiner,
	),
)

// RegisterUpdateHandler attaches the message handler to the member account.
// It runs as an fx invoke so the handler graph may depend on the client.
func RegisterUpdateHandler(client *MTProtoClient, handler UpdateHandler) {
	client.SetUpdateHandler(handler)
}

// NewMTProtoClientFx creates the member account client with lifecycle hooks for fx DI
func NewMTProtoClientFx(
	lc fx.Lifecycle,
	cfg *config.TelegramConfig,
	db *gorm.DB,
	logger zerolog.Logger,
) (*MTProtoClient, error) {
	sessions, err := NewPostgresSessionStorage(db, cfg.PhoneNumber)
	if err != nil {
		return nil, err
	}

	client, err := NewMTProtoClient(MTProtoClientConfig{
		APIID:          cfg.APIID,
		APIHash:        cfg.APIHash,
		PhoneNumber:    cfg.PhoneNumber,
		Password:       cfg.Password,
		RateLimit:      cfg.RateLimit,
		SessionStorage: sessions,
		StateStorage:   NewUpdatesStateStorage(db, logger),
		Logger:         logger,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Login may wait for a code typed on the console
			ctx, cancel := context.WithTimeout(context.Background(), cfg.AuthTimeout)
			defer cancel()
			return client.Connect(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

func provideChatFetcher(c *MTProtoClient) channeldeps.ChatFetcher {
	return c
}

func provideUserLookup(c *MTProtoClient) channeldeps.UserLookup {
	return c
}

func provideChannelJoiner(c *MTProtoClient) channeldeps.ChannelJoiner {
	return c
}
