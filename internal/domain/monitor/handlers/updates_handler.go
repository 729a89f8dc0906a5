package handlers

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/deps"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	"github.com/stavropolsky/tg-track/internal/infrastructure/telegram"
)

// MessageUpdateHandler turns member account updates into pipeline events
type MessageUpdateHandler struct {
	processor deps.MessageProcessor
	logger    zerolog.Logger

	lastUpdateTime atomic.Value
	processedCount atomic.Int64
}

// NewMessageUpdateHandler creates a new handler for inbound Telegram messages
func NewMessageUpdateHandler(processor deps.MessageProcessor, logger zerolog.Logger) *MessageUpdateHandler {
	h := &MessageUpdateHandler{
		processor: processor,
		logger:    logger.With().Str("component", "message_update_handler").Logger(),
	}
	h.lastUpdateTime.Store(time.Time{})
	return h
}

// OnNewChannelMessage handles messages in channels and supergroups.
// This is the callback for tg.UpdateDispatcher.OnNewChannelMessage
func (h *MessageUpdateHandler) OnNewChannelMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
	return h.handle(ctx, e, u.Message)
}

// OnNewMessage handles messages in basic groups.
// This is the callback for tg.UpdateDispatcher.OnNewMessage
func (h *MessageUpdateHandler) OnNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
	return h.handle(ctx, e, u.Message)
}

// handle never returns an error so one bad message cannot stop the update loop
func (h *MessageUpdateHandler) handle(ctx context.Context, e tg.Entities, m tg.MessageClass) error {
	h.lastUpdateTime.Store(time.Now())

	msg, ok := m.(*tg.Message)
	if !ok {
		h.logger.Debug().Msg("skipping non-message update")
		return nil
	}

	event, ok := ConvertMessage(msg, e)
	if !ok {
		h.logger.Debug().Int("message_id", msg.ID).Msg("skipping message outside of chats")
		return nil
	}

	h.processor.Process(ctx, event)
	h.processedCount.Add(1)
	return nil
}

// ConvertMessage builds the pipeline event for a group or channel message.
// It returns false for private chats.
func ConvertMessage(msg *tg.Message, e tg.Entities) (entities.IncomingMessageEvent, bool) {
	event := entities.IncomingMessageEvent{MessageID: msg.ID}

	switch peer := msg.PeerID.(type) {
	case *tg.PeerChannel:
		event.SourceChatID = channelentities.MarkChannelID(peer.ChannelID)
		if ch, ok := e.Channels[peer.ChannelID]; ok {
			event.SourceUsername = telegram.ChannelUsername(ch)
		}
	case *tg.PeerChat:
		event.SourceChatID = channelentities.MarkChatID(peer.ChatID)
	default:
		return entities.IncomingMessageEvent{}, false
	}

	from, ok := msg.GetFromID()
	switch sender := from.(type) {
	case *tg.PeerUser:
		event.SenderID = sender.UserID
		if user, found := e.Users[sender.UserID]; found {
			event.SenderUsername = telegram.UserUsername(user)
		}
	case *tg.PeerChannel:
		event.SenderID = channelentities.MarkChannelID(sender.ChannelID)
		event.SenderIsChannel = true
		if ch, found := e.Channels[sender.ChannelID]; found {
			event.SenderUsername = telegram.ChannelUsername(ch)
		}
	case *tg.PeerChat:
		event.SenderID = channelentities.MarkChatID(sender.ChatID)
		event.SenderIsChannel = true
	default:
		// channel posts carry no from_id; the channel itself is the author
		if !ok {
			event.SenderID = event.SourceChatID
			event.SenderUsername = event.SourceUsername
			event.SenderIsChannel = true
		}
	}

	event.HasMedia = hasMedia(msg.Media)
	if event.HasMedia {
		event.Caption = msg.Message
	} else {
		event.Text = msg.Message
	}

	return event, true
}

// hasMedia reports whether the message carries an attachment the bot can copy.
// Link previews are part of a text message.
func hasMedia(media tg.MessageMediaClass) bool {
	switch media.(type) {
	case nil, *tg.MessageMediaEmpty, *tg.MessageMediaWebPage:
		return false
	default:
		return true
	}
}

// GetLastUpdateTime returns the time of the last received update
func (h *MessageUpdateHandler) GetLastUpdateTime() time.Time {
	if t, ok := h.lastUpdateTime.Load().(time.Time); ok {
		return t
	}
	return time.Time{}
}

// GetProcessedCount returns the total number of processed messages
func (h *MessageUpdateHandler) GetProcessedCount() int64 {
	return h.processedCount.Load()
}
