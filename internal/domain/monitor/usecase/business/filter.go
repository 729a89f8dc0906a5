package business

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stavropolsky/tg-track/internal/domain/monitor/deps"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// Filter decides whether an inbound message is relayed
type Filter struct {
	registry deps.AdmissionRegistry
	logger   zerolog.Logger
}

// NewFilter creates a new admission filter
func NewFilter(registry deps.AdmissionRegistry, logger zerolog.Logger) *Filter {
	return &Filter{
		registry: registry,
		logger:   logger.With().Str("component", "admission_filter").Logger(),
	}
}

// Admit evaluates the event. Lookup errors drop the message.
func (f *Filter) Admit(ctx context.Context, event entities.IncomingMessageEvent) entities.Decision {
	blacklisted, err := f.senderBlacklisted(ctx, event)
	if err != nil {
		f.logger.Error().Err(err).
			Int64("chat_id", event.SourceChatID).
			Int64("sender_id", event.SenderID).
			Msg("Failed to check blacklist")
		return entities.Drop(entities.DropLookupFailed)
	}
	if blacklisted {
		return entities.Drop(entities.DropBlacklisted)
	}

	_, tracked, err := f.registry.ChannelType(ctx, event.SourceChatID)
	if err != nil {
		f.logger.Error().Err(err).Int64("chat_id", event.SourceChatID).Msg("Failed to look up channel")
		return entities.Drop(entities.DropLookupFailed)
	}
	if !tracked {
		return entities.Drop(entities.DropUntracked)
	}

	text := event.TextToCheck()
	if text == "" {
		return entities.Drop(entities.DropNoText)
	}

	keywords, err := f.registry.ListKeywords(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("Failed to list keywords")
		return entities.Drop(entities.DropLookupFailed)
	}

	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		needle := strings.ToLower(kw.Keyword)
		if needle == "" {
			continue
		}
		if strings.Contains(lowered, needle) {
			return entities.Forward(kw.Keyword, text)
		}
	}

	return entities.Drop(entities.DropNoMatch)
}

// senderBlacklisted checks the sender id first, then the username
func (f *Filter) senderBlacklisted(ctx context.Context, event entities.IncomingMessageEvent) (bool, error) {
	if event.SenderID != 0 {
		listed, err := f.registry.IsBlacklisted(ctx, registryentities.ByID(event.SenderID))
		if err != nil || listed {
			return listed, err
		}
	}

	if event.SenderUsername == "" {
		return false, nil
	}

	return f.registry.IsBlacklisted(ctx, registryentities.ByName(event.SenderUsername))
}
