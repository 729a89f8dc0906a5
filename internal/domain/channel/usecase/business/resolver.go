package business

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/stavropolsky/tg-track/internal/domain/channel/deps"
	"github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	channelerrors "github.com/stavropolsky/tg-track/internal/domain/channel/errors"
)

// Resolver turns channel references into stable identities
type Resolver struct {
	fetcher deps.ChatFetcher
	logger  zerolog.Logger
}

// NewResolver creates a new Resolver
func NewResolver(fetcher deps.ChatFetcher, logger zerolog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "channel_resolver").Logger(),
	}
}

// Resolve fetches a chat by handle or invite link. It fails with
// ErrInvalidReference for unparsable input, ErrNotAMember for invite
// previews and ErrResolution joined with the cause for platform errors.
func (r *Resolver) Resolve(ctx context.Context, reference string) (*entities.ChannelInfo, error) {
	ref, err := entities.ParseReference(reference)
	if err != nil {
		return nil, err
	}

	var meta *entities.ChatMetadata
	if ref.IsInvite() {
		meta, err = r.fetcher.FetchByInvite(ctx, ref.InviteHash)
	} else {
		meta, err = r.fetcher.FetchByHandle(ctx, ref.Handle)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("reference", reference).Msg("Failed to resolve channel")
		return nil, errors.Join(channelerrors.ErrResolution, err)
	}

	if meta.Preview {
		r.logger.Warn().Str("reference", reference).Msg("Chat is only available as a preview")
		return nil, channelerrors.ErrNotAMember
	}

	info := &entities.ChannelInfo{
		ChatID:        meta.ChatID,
		Type:          ref.Type(),
		Username:      meta.Username,
		Title:         meta.Title,
		RawChatHandle: ref.RawHandle(),
		URL:           ref.Canonical(),
		Left:          meta.Left,
	}

	r.logger.Debug().
		Int64("chat_id", info.ChatID).
		Str("type", string(info.Type)).
		Str("url", info.URL).
		Msg("Channel resolved")

	return info, nil
}
