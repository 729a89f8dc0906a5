// Package deps declares the collaborators of the admin commands
package deps

import (
	"context"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
)

// ChannelResolver resolves channel references through the member account
type ChannelResolver interface {
	Resolve(ctx context.Context, reference string) (*channelentities.ChannelInfo, error)
}

// DestinationLocator returns the destination channel identity
type DestinationLocator interface {
	Locate(ctx context.Context) (*channelentities.ChannelInfo, error)
}

// UserLookup maps user ids and usernames to each other
type UserLookup interface {
	LookupUserByID(ctx context.Context, id int64) (*channelentities.User, error)
	LookupUserByUsername(ctx context.Context, username string) (*channelentities.User, error)
}

// ChannelJoiner joins public channels with the member account
type ChannelJoiner interface {
	JoinChannel(ctx context.Context, handle string) error
}

// Replier sends a plain text reply to a chat through the bot
type Replier interface {
	Reply(ctx context.Context, chatID int64, text string) error
}
