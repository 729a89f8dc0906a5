package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/stavropolsky/tg-track/config"
	"github.com/stavropolsky/tg-track/internal/domain/admin/consts"
	adminerrors "github.com/stavropolsky/tg-track/internal/domain/admin/errors"
	"github.com/stavropolsky/tg-track/internal/domain/admin/usecase/business"
)

// HandlerRegistrar is the part of the bot the router needs
type HandlerRegistrar interface {
	RegisterHandlerMatchFunc(matchFunc tgbot.MatchFunc, f tgbot.HandlerFunc, m ...tgbot.Middleware) string
}

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	botCfg   *config.BotConfig
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, botCfg *config.BotConfig, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		botCfg:   botCfg,
		logger:   logger,
	}
}

// RegisterRoutes registers all command handlers on the bot
func (r *Router) RegisterRoutes(bot HandlerRegistrar) {
	routes := map[consts.Command]tgbot.HandlerFunc{
		consts.CommandStart:               r.handlers.HandleStart,
		consts.CommandHelp:                r.handlers.HandleHelp,
		consts.CommandListChannels:        r.handlers.HandleListChannels,
		consts.CommandListKeywords:        r.handlers.HandleListKeywords,
		consts.CommandListBlacklist:       r.handlers.HandleListBlacklist,
		consts.CommandAddChannel:          r.handlers.HandleAddChannel,
		consts.CommandRemoveChannel:       r.handlers.HandleRemoveChannel,
		consts.CommandAddKeyword:          r.handlers.HandleAddKeyword,
		consts.CommandRemoveKeyword:       r.handlers.HandleRemoveKeyword,
		consts.CommandAddToBlacklist:      r.handlers.HandleAddToBlacklist,
		consts.CommandRemoveFromBlacklist: r.handlers.HandleRemoveFromBlacklist,
	}

	for cmd, h := range routes {
		bot.RegisterHandlerMatchFunc(MatchCommand(cmd), h, r.AdminOnly)
	}

	r.logger.Info().Int("commands", len(routes)).Msg("All Telegram command handlers registered successfully")
}

// MatchCommand matches a message whose first word is the command,
// with or without a trailing @BotName as Telegram sends it in groups.
func MatchCommand(cmd consts.Command) tgbot.MatchFunc {
	slash := cmd.Slash()
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}
		fields := strings.Fields(update.Message.Text)
		if len(fields) == 0 {
			return false
		}
		name, _, _ := strings.Cut(fields[0], "@")
		return name == slash
	}
}

// AdminOnly rejects commands from users not listed in TELEGRAM_ADMIN_IDS
func (r *Router) AdminOnly(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}

		var userID int64
		if update.Message.From != nil {
			userID = update.Message.From.ID
		}
		if !r.botCfg.IsAdmin(userID) {
			r.logger.Warn().
				Int64("user_id", userID).
				Str("command", update.Message.Text).
				Msg("Rejected command from non-admin")
			r.handlers.sendResponse(ctx, update.Message.Chat.ID, business.ErrorReply("", adminerrors.ErrNotAdmin))
			return
		}

		next(ctx, bot, update)
	}
}
