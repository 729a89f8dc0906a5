// Package bot contains Telegram Bot API infrastructure
package bot

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
)

const defaultReply = "Используйте команды для управления ботом. Напишите /help для списка доступных команд."

// Bot wraps the Telegram bot for the infrastructure layer.
// It delivers relayed messages and admin replies.
type Bot struct {
	bot     *tgbot.Bot
	timeout time.Duration
	logger  zerolog.Logger
}

// NewBot creates a new Telegram bot wrapper.
// Non-command text is answered with a hint only when isAdmin accepts the sender.
func NewBot(token string, timeout time.Duration, isAdmin func(userID int64) bool, logger zerolog.Logger, opts ...tgbot.Option) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}

	opts = append([]tgbot.Option{tgbot.WithDefaultHandler(defaultHandler(isAdmin))}, opts...)

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info().Msg("Telegram bot created successfully")

	return &Bot{
		bot:     bot,
		timeout: timeout,
		logger:  logger.With().Str("component", "bot").Logger(),
	}, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// CopyMessage copies a source message into req.ChatID with a MarkdownV2 caption
func (b *Bot) CopyMessage(ctx context.Context, req entities.CopyRequest) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	_, err := b.bot.CopyMessage(ctx, &tgbot.CopyMessageParams{
		ChatID:     req.ChatID,
		FromChatID: req.FromChatID,
		MessageID:  req.MessageID,
		Caption:    req.Caption,
		ParseMode:  models.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("failed to copy message %d: %w", req.MessageID, err)
	}
	return nil
}

// SendText sends MarkdownV2 text
func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	_, err := b.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdown,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %d: %w", chatID, err)
	}
	return nil
}

// Reply sends plain text to an admin chat
func (b *Bot) Reply(ctx context.Context, chatID int64, text string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()

	_, err := b.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("failed to reply to %d: %w", chatID, err)
	}
	return nil
}

// Start starts long polling (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

func (b *Bot) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

// defaultHandler handles messages without commands
func defaultHandler(isAdmin func(int64) bool) tgbot.HandlerFunc {
	return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil || msg.Text == "" || msg.From == nil || !isAdmin(msg.From.ID) {
			return
		}

		_, _ = bot.SendMessage(ctx, &tgbot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   defaultReply,
		})
	}
}
