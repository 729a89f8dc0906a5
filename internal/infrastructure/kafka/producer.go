// Package kafka publishes relay events to Kafka
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	"github.com/stavropolsky/tg-track/internal/infrastructure/metrics"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes a JSON RelayedMessage for each completed relay
type Producer struct {
	writer  messageWriter
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewProducer creates a producer writing to topic
func NewProducer(brokers []string, topic string, m *metrics.Metrics, logger zerolog.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka producer initialized")

	return newProducer(writer, m, logger), nil
}

func newProducer(writer messageWriter, m *metrics.Metrics, logger zerolog.Logger) *Producer {
	return &Producer{
		writer:  writer,
		metrics: m,
		logger:  logger.With().Str("component", "kafka_producer").Logger(),
	}
}

// PublishRelayed publishes msg keyed by its source message
func (p *Producer) PublishRelayed(ctx context.Context, msg entities.RelayedMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal relayed message: %w", err)
	}

	key := fmt.Sprintf("relay-%d-%d", msg.SourceChatID, msg.MessageID)

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  msg.Timestamp,
	})
	if err != nil {
		p.metrics.RecordKafkaError()
		p.logger.Error().Err(err).Str("key", key).Msg("Failed to publish relayed message")
		return fmt.Errorf("failed to publish relayed message: %w", err)
	}

	p.metrics.RecordKafkaPublished()
	p.logger.Debug().Str("key", key).Msg("Relayed message published")
	return nil
}

// Close flushes pending messages and closes the writer
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NoopPublisher is used when no brokers are configured
type NoopPublisher struct{}

// PublishRelayed does nothing
func (NoopPublisher) PublishRelayed(context.Context, entities.RelayedMessage) error {
	return nil
}
