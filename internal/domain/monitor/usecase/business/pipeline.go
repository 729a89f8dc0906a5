package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/stavropolsky/tg-track/internal/domain/monitor/deps"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	monitorerrors "github.com/stavropolsky/tg-track/internal/domain/monitor/errors"
	"github.com/stavropolsky/tg-track/internal/infrastructure/metrics"
	pkgerrors "github.com/stavropolsky/tg-track/pkg/errors"
)

// publishTimeout bounds the relay event publish on the update goroutine
const publishTimeout = 5 * time.Second

// Pipeline runs admission and relay for each inbound message.
// Nothing that happens inside it reaches the caller.
type Pipeline struct {
	filter      *Filter
	engine      *Engine
	destination deps.DestinationLocator
	publisher   deps.RelayPublisher
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	publishTimeout time.Duration
}

// NewPipeline creates a new Pipeline
func NewPipeline(
	filter *Filter,
	engine *Engine,
	destination deps.DestinationLocator,
	publisher deps.RelayPublisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		filter:      filter,
		engine:      engine,
		destination: destination,
		publisher:   publisher,
		metrics:     m,
		logger:      logger.With().Str("component", "relay_pipeline").Logger(),

		publishTimeout: publishTimeout,
	}
}

// Process handles one event and returns the admission decision
func (p *Pipeline) Process(ctx context.Context, event entities.IncomingMessageEvent) (decision entities.Decision) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("panic", fmt.Sprint(r)).
				Int64("chat_id", event.SourceChatID).
				Int("message_id", event.MessageID).
				Msg("Recovered from panic while processing message")
			p.metrics.RecordRelayFailure("panic")
			decision = entities.Drop(entities.DropLookupFailed)
		}
	}()

	if p.destination.IsDestination(event.SourceChatID) {
		p.metrics.RecordDropped(string(entities.DropDestination))
		return entities.Drop(entities.DropDestination)
	}

	decision = p.filter.Admit(ctx, event)
	if !decision.Forwarded() {
		p.metrics.RecordDropped(string(decision.Reason))
		p.logger.Debug().
			Int64("chat_id", event.SourceChatID).
			Int("message_id", event.MessageID).
			Str("reason", string(decision.Reason)).
			Msg("Message dropped")
		return decision
	}

	start := time.Now()
	relayed, err := p.engine.Relay(ctx, event, decision.Keyword)
	if err != nil {
		p.logger.Error().Err(err).
			Int64("chat_id", event.SourceChatID).
			Int("message_id", event.MessageID).
			Str("keyword", decision.Keyword).
			Msg("Failed to relay message")
		p.metrics.RecordRelayFailure(failureKind(err))
		return decision
	}

	p.metrics.RecordRelayed(string(relayed.Mode), time.Since(start).Seconds())
	p.logger.Info().
		Int64("chat_id", event.SourceChatID).
		Int("message_id", event.MessageID).
		Str("keyword", decision.Keyword).
		Str("mode", string(relayed.Mode)).
		Msg("Message relayed")

	publishCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()
	if err := p.publisher.PublishRelayed(publishCtx, *relayed); err != nil {
		p.logger.Warn().Err(err).
			Int64("chat_id", event.SourceChatID).
			Int("message_id", event.MessageID).
			Msg("Failed to publish relay event")
	}

	return decision
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, monitorerrors.ErrDestinationUnavailable):
		return "destination"
	case errors.Is(err, monitorerrors.ErrDeliveryFailed):
		return "delivery"
	default:
		return pkgerrors.TypeOf(err).String()
	}
}
