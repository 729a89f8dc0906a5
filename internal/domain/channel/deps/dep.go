// Package deps declares what channel resolution needs from the platform client
package deps

import (
	"context"

	"github.com/stavropolsky/tg-track/internal/domain/channel/entities"
)

// ChatFetcher fetches chat metadata through the member account
type ChatFetcher interface {
	FetchByHandle(ctx context.Context, handle string) (*entities.ChatMetadata, error)
	FetchByInvite(ctx context.Context, hash string) (*entities.ChatMetadata, error)
}

// UserLookup maps user ids and usernames to each other through the member account
type UserLookup interface {
	LookupUserByID(ctx context.Context, id int64) (*entities.User, error)
	LookupUserByUsername(ctx context.Context, username string) (*entities.User, error)
}

// ChannelJoiner joins public channels with the member account
type ChannelJoiner interface {
	JoinChannel(ctx context.Context, handle string) error
}
