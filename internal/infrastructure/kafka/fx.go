package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/stavropolsky/tg-track/config"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/deps"
	"github.com/stavropolsky/tg-track/internal/infrastructure/metrics"
)

// Module provides the relay event publisher for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewRelayPublisherFx),
)

// NewRelayPublisherFx creates the Kafka producer, or a no-op publisher when
// KAFKA_BROKERS is empty
func NewRelayPublisherFx(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (deps.RelayPublisher, error) {
	if !kafkaCfg.Enabled() {
		logger.Info().Msg("Kafka brokers not configured, relay events are not published")
		return NoopPublisher{}, nil
	}

	producer, err := NewProducer(kafkaCfg.Brokers, kafkaCfg.RelayTopic, m, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
