// Package business contains business logic for the admin commands
package business

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stavropolsky/tg-track/config"
	"github.com/stavropolsky/tg-track/internal/domain/admin/consts"
	"github.com/stavropolsky/tg-track/internal/domain/admin/deps"
	"github.com/stavropolsky/tg-track/internal/domain/admin/dto"
	adminerrors "github.com/stavropolsky/tg-track/internal/domain/admin/errors"
	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	channelerrors "github.com/stavropolsky/tg-track/internal/domain/channel/errors"
	registrydeps "github.com/stavropolsky/tg-track/internal/domain/registry/deps"
	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// UseCase contains business logic for admin commands
type UseCase struct {
	registry    registrydeps.Registry
	resolver    deps.ChannelResolver
	destination deps.DestinationLocator
	users       deps.UserLookup
	joiner      deps.ChannelJoiner
	autoJoin    bool
	logger      zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	registry registrydeps.Registry,
	resolver deps.ChannelResolver,
	destination deps.DestinationLocator,
	users deps.UserLookup,
	joiner deps.ChannelJoiner,
	relayCfg *config.RelayConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		registry:    registry,
		resolver:    resolver,
		destination: destination,
		users:       users,
		joiner:      joiner,
		autoJoin:    relayCfg.AutoJoin,
		logger:      logger.With().Str("component", "admin_usecase").Logger(),
	}
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(_ context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", req.UserID).
		Str("username", req.Username).
		Msg("Admin started bot")

	return &dto.CommandResponse{Message: "Привет! Я бот для мониторинга каналов в поисках ключевых слов. " +
		"Используйте следующие команды для работы со мной:\n\n" + commandList()}, nil
}

// HandleHelp handles /help command
func (uc *UseCase) HandleHelp(_ context.Context) (*dto.CommandResponse, error) {
	return &dto.CommandResponse{Message: "Доступные команды:\n\n" + commandList()}, nil
}

func commandList() string {
	var b strings.Builder
	for _, cmd := range consts.AllCommands {
		b.WriteString(cmd.Slash())
		if cmd.Args != "" {
			b.WriteString(" " + cmd.Args)
		}
		b.WriteString(" - " + cmd.Description + "\n")
	}
	return b.String()
}

// AddChannel resolves a channel reference and starts tracking it
func (uc *UseCase) AddChannel(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	reference := strings.TrimSpace(req.Args)
	if reference == "" {
		return nil, adminerrors.ErrMissingArgument
	}

	info, err := uc.resolver.Resolve(ctx, reference)
	if err != nil {
		if errors.Is(err, channelerrors.ErrInvalidReference) {
			return nil, adminerrors.ErrInvalidChannelURL
		}
		return nil, err
	}

	dest, err := uc.destination.Locate(ctx)
	if err != nil {
		return nil, errors.Join(adminerrors.ErrDestinationUnavailable, err)
	}
	if dest.ChatID == info.ChatID {
		return nil, adminerrors.ErrDestinationNotTrackable
	}

	if info.Left && info.Type == registryentities.ChannelTypePublic {
		uc.joinChannel(ctx, info)
	}

	added, err := uc.registry.AddChannel(ctx, info.ChatID, info.URL, info.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to add channel: %w", err)
	}
	if !added {
		return nil, adminerrors.ErrAlreadyTracked
	}

	uc.logger.Info().
		Int64("chat_id", info.ChatID).
		Str("url", info.URL).
		Str("type", string(info.Type)).
		Msg("Channel added")

	return &dto.CommandResponse{Message: "Канал успешно добавлен."}, nil
}

// joinChannel subscribes the member account so that updates arrive.
// A failed join does not fail the command.
func (uc *UseCase) joinChannel(ctx context.Context, info *channelentities.ChannelInfo) {
	if !uc.autoJoin {
		uc.logger.Warn().
			Str("url", info.URL).
			Msg("Member account has not joined the channel and auto-join is disabled, messages will not arrive")
		return
	}
	if err := uc.joiner.JoinChannel(ctx, info.Username); err != nil {
		uc.logger.Warn().Err(err).Str("url", info.URL).Msg("Failed to join channel")
		return
	}
	uc.logger.Info().Str("url", info.URL).Msg("Joined channel")
}

// RemoveChannel stops tracking the channel stored under the given url
func (uc *UseCase) RemoveChannel(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	raw := strings.TrimSpace(req.Args)
	if raw == "" {
		return nil, adminerrors.ErrMissingArgument
	}

	url := registryentities.CanonicalURL(raw)
	if ref, err := channelentities.ParseReference(raw); err == nil {
		url = ref.Canonical()
	}

	removed, err := uc.registry.RemoveChannel(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to remove channel: %w", err)
	}
	if !removed {
		return nil, adminerrors.ErrChannelNotFound
	}

	uc.logger.Info().Str("url", url).Msg("Channel removed")
	return &dto.CommandResponse{Message: "Канал успешно удален."}, nil
}

// ListChannels lists tracked channel urls
func (uc *UseCase) ListChannels(ctx context.Context) (*dto.CommandResponse, error) {
	channels, err := uc.registry.ListChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	if len(channels) == 0 {
		return &dto.CommandResponse{Message: "Нет добавленных каналов."}, nil
	}

	lines := make([]string, len(channels))
	for i, ch := range channels {
		lines[i] = ch.URL
	}
	return &dto.CommandResponse{Message: strings.Join(lines, "\n")}, nil
}

// AddKeyword registers a keyword as entered
func (uc *UseCase) AddKeyword(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	keyword := strings.TrimSpace(req.Args)
	if keyword == "" {
		return nil, adminerrors.ErrMissingArgument
	}

	added, err := uc.registry.AddKeyword(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to add keyword: %w", err)
	}
	if !added {
		return nil, adminerrors.ErrKeywordExists
	}

	uc.logger.Info().Str("keyword", keyword).Msg("Keyword added")
	return &dto.CommandResponse{Message: "Ключевое слово успешно добавлено."}, nil
}

// RemoveKeyword deletes a keyword. The match is exact.
func (uc *UseCase) RemoveKeyword(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	keyword := strings.TrimSpace(req.Args)
	if keyword == "" {
		return nil, adminerrors.ErrMissingArgument
	}

	removed, err := uc.registry.RemoveKeyword(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to remove keyword: %w", err)
	}
	if !removed {
		return nil, adminerrors.ErrKeywordNotFound
	}

	uc.logger.Info().Str("keyword", keyword).Msg("Keyword removed")
	return &dto.CommandResponse{Message: fmt.Sprintf("Ключевое слово '%s' успешно удалено.", keyword)}, nil
}

// ListKeywords lists keywords in registration order
func (uc *UseCase) ListKeywords(ctx context.Context) (*dto.CommandResponse, error) {
	keywords, err := uc.registry.ListKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	if len(keywords) == 0 {
		return &dto.CommandResponse{Message: "Нет добавленных ключевых слов."}, nil
	}

	lines := make([]string, len(keywords))
	for i, kw := range keywords {
		lines[i] = kw.Keyword
	}
	return &dto.CommandResponse{Message: strings.Join(lines, "\n")}, nil
}

// AddToBlacklist blacklists a sender given as "@username" or a numeric id.
// The other half of the pair is looked up through the member account.
func (uc *UseCase) AddToBlacklist(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	raw := strings.TrimSpace(req.Args)
	if raw == "" {
		return nil, adminerrors.ErrMissingArgument
	}

	userID, username, err := uc.resolveSender(ctx, raw)
	if err != nil {
		return nil, err
	}

	added, err := uc.registry.UpsertBlacklist(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to blacklist user: %w", err)
	}
	if !added {
		return nil, adminerrors.ErrAlreadyBlacklisted
	}

	uc.logger.Info().Int64("user_id", userID).Str("username", username).Msg("User blacklisted")
	return &dto.CommandResponse{Message: "Пользователь успешно добавлен в черный список."}, nil
}

// resolveSender returns the id and lowercased username for a blacklist argument
func (uc *UseCase) resolveSender(ctx context.Context, raw string) (int64, string, error) {
	if strings.HasPrefix(raw, "@") {
		name := registryentities.NormalizeUsername(raw)
		if name == "" {
			return 0, "", adminerrors.ErrInvalidIdentifier
		}
		user, err := uc.users.LookupUserByUsername(ctx, name)
		if err != nil {
			return 0, "", err
		}
		return user.ID, name, nil
	}

	id, ok := registryentities.ParseIdentifier(raw)
	if !ok || id.IsName() {
		return 0, "", adminerrors.ErrInvalidIdentifier
	}

	// access hashes are rarely known for a bare id, so a failed lookup only loses the username
	user, err := uc.users.LookupUserByID(ctx, id.ID())
	if err != nil {
		uc.logger.Warn().Err(err).Int64("user_id", id.ID()).Msg("Failed to look up username, blacklisting by id only")
		return id.ID(), "", nil
	}
	return id.ID(), registryentities.NormalizeUsername(user.Username), nil
}

// RemoveFromBlacklist deletes a blacklist entry by "@username", bare username or id
func (uc *UseCase) RemoveFromBlacklist(ctx context.Context, req *dto.CommandRequest) (*dto.CommandResponse, error) {
	id, ok := registryentities.ParseIdentifier(req.Args)
	if !ok {
		return nil, adminerrors.ErrMissingArgument
	}

	removed, err := uc.registry.RemoveBlacklist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to remove blacklist entry: %w", err)
	}
	if !removed {
		return nil, adminerrors.ErrNotBlacklisted
	}

	uc.logger.Info().Str("identifier", id.String()).Msg("User removed from blacklist")
	return &dto.CommandResponse{Message: "Пользователь успешно удален из черного списка."}, nil
}

// ListBlacklist lists blacklisted senders with id and username
func (uc *UseCase) ListBlacklist(ctx context.Context) (*dto.CommandResponse, error) {
	entries, err := uc.registry.ListBlacklist(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blacklist: %w", err)
	}
	if len(entries) == 0 {
		return &dto.CommandResponse{Message: "Черный список пуст."}, nil
	}

	var b strings.Builder
	b.WriteString("Черный список:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "ID: %d, username: %s\n", e.UserID, e.DisplayUsername())
	}
	return &dto.CommandResponse{Message: b.String()}, nil
}
