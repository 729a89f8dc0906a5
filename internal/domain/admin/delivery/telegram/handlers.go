// Package telegram contains Telegram delivery handlers for admin commands
package telegram

import (
	"context"
	"strings"
	"unicode"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/stavropolsky/tg-track/internal/domain/admin/consts"
	"github.com/stavropolsky/tg-track/internal/domain/admin/deps"
	"github.com/stavropolsky/tg-track/internal/domain/admin/dto"
	"github.com/stavropolsky/tg-track/internal/domain/admin/usecase/business"
	"github.com/stavropolsky/tg-track/internal/infrastructure/metrics"
)

type commandFunc func(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error)

// Handlers contains Telegram command handlers
type Handlers struct {
	uc      *business.UseCase
	replier deps.Replier
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, replier deps.Replier, m *metrics.Metrics, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:      uc,
		replier: replier,
		metrics: m,
		logger:  logger.With().Str("component", "admin_handlers").Logger(),
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandStart, update, h.uc.HandleStart)
}

// HandleHelp handles /help command
func (h *Handlers) HandleHelp(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandHelp, update, noArgs(h.uc.HandleHelp))
}

// HandleAddChannel handles /add_channel command
func (h *Handlers) HandleAddChannel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandAddChannel, update, h.uc.AddChannel)
}

// HandleRemoveChannel handles /remove_channel command
func (h *Handlers) HandleRemoveChannel(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandRemoveChannel, update, h.uc.RemoveChannel)
}

// HandleListChannels handles /list_channels command
func (h *Handlers) HandleListChannels(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandListChannels, update, noArgs(h.uc.ListChannels))
}

// HandleAddKeyword handles /add_keyword command
func (h *Handlers) HandleAddKeyword(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandAddKeyword, update, h.uc.AddKeyword)
}

// HandleRemoveKeyword handles /remove_keyword command
func (h *Handlers) HandleRemoveKeyword(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandRemoveKeyword, update, h.uc.RemoveKeyword)
}

// HandleListKeywords handles /list_keywords command
func (h *Handlers) HandleListKeywords(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandListKeywords, update, noArgs(h.uc.ListKeywords))
}

// HandleAddToBlacklist handles /add_to_blacklist command
func (h *Handlers) HandleAddToBlacklist(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandAddToBlacklist, update, h.uc.AddToBlacklist)
}

// HandleRemoveFromBlacklist handles /remove_from_blacklist command
func (h *Handlers) HandleRemoveFromBlacklist(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandRemoveFromBlacklist, update, h.uc.RemoveFromBlacklist)
}

// HandleListBlacklist handles /list_blacklist command
func (h *Handlers) HandleListBlacklist(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	h.run(ctx, consts.CommandListBlacklist, update, noArgs(h.uc.ListBlacklist))
}

// run executes one command and sends exactly one reply
func (h *Handlers) run(ctx context.Context, cmd consts.Command, update *models.Update, fn commandFunc) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	req := &dto.CommandRequest{Args: commandArgs(update.Message.Text)}
	if from := update.Message.From; from != nil {
		req.UserID = from.ID
		req.Username = from.Username
	}

	h.logCommand(req.UserID, cmd.Slash(), "processing")

	resp, err := fn(ctx, req)
	h.metrics.RecordAdminCommand(cmd.Name, business.ResultLabel(err))
	if err != nil {
		h.logError(req.UserID, cmd.Slash(), err)
		h.sendResponse(ctx, chatID, business.ErrorReply(cmd.Name, err))
		return
	}

	h.sendResponse(ctx, chatID, resp.Message)
	h.logCommand(req.UserID, cmd.Slash(), "success")
}

func noArgs(fn func(ctx context.Context) (*dto.CommandResponse, error)) commandFunc {
	return func(ctx context.Context, _ *dto.CommandRequest) (*dto.CommandResponse, error) {
		return fn(ctx)
	}
}

// commandArgs returns the text after the command word
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}

func (h *Handlers) sendResponse(ctx context.Context, chatID int64, text string) {
	if err := h.replier.Reply(ctx, chatID, text); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
	}
}

// logCommand logs command processing
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().Int64("user_id", userID).Str("command", command).Err(err).Msg("Telegram command failed")
}
