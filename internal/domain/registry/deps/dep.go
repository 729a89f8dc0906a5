// Package deps declares the registry contract consumed by other domains
package deps

import (
	"context"

	"github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// Registry is durable storage of tracked channels, keywords and the blacklist.
// Add and remove methods report false instead of failing when a uniqueness
// constraint or a missing row prevents the change. Errors are storage failures.
type Registry interface {
	AddChannel(ctx context.Context, chatID int64, url string, channelType entities.ChannelType) (bool, error)
	RemoveChannel(ctx context.Context, url string) (bool, error)
	ListChannels(ctx context.Context) ([]entities.Channel, error)
	// ChannelType returns false when chatID is not tracked
	ChannelType(ctx context.Context, chatID int64) (entities.ChannelType, bool, error)

	AddKeyword(ctx context.Context, keyword string) (bool, error)
	RemoveKeyword(ctx context.Context, keyword string) (bool, error)
	ListKeywords(ctx context.Context) ([]entities.Keyword, error)

	// UpsertBlacklist returns false when userID is already blacklisted
	UpsertBlacklist(ctx context.Context, userID int64, username string) (bool, error)
	RemoveBlacklist(ctx context.Context, id entities.Identifier) (bool, error)
	ListBlacklist(ctx context.Context) ([]entities.BlacklistEntry, error)
	IsBlacklisted(ctx context.Context, id entities.Identifier) (bool, error)
	// LookupBlacklistedID maps a blacklisted username back to its id
	LookupBlacklistedID(ctx context.Context, username string) (int64, bool, error)
}
