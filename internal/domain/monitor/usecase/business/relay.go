package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/deps"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	monitorerrors "github.com/stavropolsky/tg-track/internal/domain/monitor/errors"
)

// LinkLabel is the text of the back-link appended to relayed messages
const LinkLabel = "Ссылка на сообщение"

// Engine re-emits admitted messages into the destination channel
type Engine struct {
	registry    deps.AdmissionRegistry
	destination deps.DestinationLocator
	sender      deps.DestinationSender
	logger      zerolog.Logger
}

// NewEngine creates a new relay engine
func NewEngine(
	registry deps.AdmissionRegistry,
	destination deps.DestinationLocator,
	sender deps.DestinationSender,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		registry:    registry,
		destination: destination,
		sender:      sender,
		logger:      logger.With().Str("component", "relay_engine").Logger(),
	}
}

// Relay copies a media message or sends a text message into the destination,
// with a back-link to the original appended.
func (e *Engine) Relay(ctx context.Context, event entities.IncomingMessageEvent, keyword string) (*entities.RelayedMessage, error) {
	dest, err := e.destination.Locate(ctx)
	if err != nil {
		return nil, errors.Join(monitorerrors.ErrDestinationUnavailable, err)
	}

	// The channel may have been removed since admission. A missing type only costs the link.
	channelType, _, err := e.registry.ChannelType(ctx, event.SourceChatID)
	if err != nil {
		e.logger.Warn().Err(err).Int64("chat_id", event.SourceChatID).Msg("Failed to look up channel type, relaying without link")
		channelType = ""
	}

	link, ok := channelentities.MessageLink(channelType, event.SourceUsername, event.SourceChatID, event.MessageID)
	if !ok {
		e.logger.Warn().
			Int64("chat_id", event.SourceChatID).
			Int("message_id", event.MessageID).
			Str("type", string(channelType)).
			Msg("Cannot build back-link, relaying without link")
	}

	relayed := &entities.RelayedMessage{
		EventID:       uuid.NewString(),
		SourceChatID:  event.SourceChatID,
		MessageID:     event.MessageID,
		DestinationID: dest.ChatID,
		Keyword:       keyword,
		Link:          link,
		HasMedia:      event.HasMedia,
		Timestamp:     time.Now(),
	}

	if event.HasMedia {
		relayed.Mode = entities.RelayModeCopy
		err = e.sender.CopyMessage(ctx, entities.CopyRequest{
			ChatID:     dest.ChatID,
			FromChatID: channelentities.FromChatRef(channelType, event.SourceUsername, event.SourceChatID),
			MessageID:  event.MessageID,
			Caption:    ComposeRelayText(event.Caption, link),
		})
	} else {
		relayed.Mode = entities.RelayModeSend
		err = e.sender.SendText(ctx, dest.ChatID, ComposeRelayText(event.Text, link))
	}
	if err != nil {
		return nil, errors.Join(monitorerrors.ErrDeliveryFailed, fmt.Errorf("%s: %w", relayed.Mode, err))
	}

	return relayed, nil
}

// ComposeRelayText escapes body for MarkdownV2 and appends the back-link
func ComposeRelayText(body, link string) string {
	text := tgbot.EscapeMarkdown(body)
	if link == "" {
		return text
	}

	linkPart := "[" + tgbot.EscapeMarkdown(LinkLabel) + "](" + link + ")"
	if text == "" {
		return linkPart
	}
	return text + "\n\n" + linkPart
}
