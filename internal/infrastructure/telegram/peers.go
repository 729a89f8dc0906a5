package telegram

import (
	"fmt"

	"github.com/gotd/td/tg"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
)

// resolvedChannel returns the channel a username resolved to
func resolvedChannel(resolved *tg.ContactsResolvedPeer) (*tg.Channel, bool) {
	peer, ok := resolved.Peer.(*tg.PeerChannel)
	if !ok {
		return nil, false
	}
	for _, chat := range resolved.Chats {
		if ch, ok := chat.(*tg.Channel); ok && ch.ID == peer.ChannelID {
			return ch, true
		}
	}
	return nil, false
}

// resolvedSender returns the user or channel a username resolved to
func resolvedSender(resolved *tg.ContactsResolvedPeer) (*channelentities.User, bool) {
	switch peer := resolved.Peer.(type) {
	case *tg.PeerUser:
		for _, u := range resolved.Users {
			if user, ok := u.(*tg.User); ok && user.ID == peer.UserID {
				return &channelentities.User{ID: user.ID, Username: UserUsername(user)}, true
			}
		}
	case *tg.PeerChannel:
		if ch, ok := resolvedChannel(resolved); ok {
			return &channelentities.User{ID: channelentities.MarkChannelID(ch.ID), Username: ChannelUsername(ch)}, true
		}
	}
	return nil, false
}

func channelMetadata(ch *tg.Channel) *channelentities.ChatMetadata {
	return &channelentities.ChatMetadata{
		ChatID:   channelentities.MarkChannelID(ch.ID),
		Username: ChannelUsername(ch),
		Title:    ch.Title,
		Left:     ch.Left,
	}
}

// inviteMetadata describes the chat behind an invite link
func inviteMetadata(invite tg.ChatInviteClass) (*channelentities.ChatMetadata, error) {
	switch i := invite.(type) {
	case *tg.ChatInviteAlready:
		switch chat := i.Chat.(type) {
		case *tg.Channel:
			return channelMetadata(chat), nil
		case *tg.Chat:
			return &channelentities.ChatMetadata{
				ChatID: channelentities.MarkChatID(chat.ID),
				Title:  chat.Title,
			}, nil
		default:
			return nil, fmt.Errorf("unexpected invite chat %T", i.Chat)
		}
	case *tg.ChatInvitePeek:
		meta := &channelentities.ChatMetadata{Preview: true}
		if ch, ok := i.Chat.(*tg.Channel); ok {
			meta.ChatID = channelentities.MarkChannelID(ch.ID)
			meta.Title = ch.Title
		}
		return meta, nil
	case *tg.ChatInvite:
		return &channelentities.ChatMetadata{Title: i.Title, Preview: true}, nil
	default:
		return nil, fmt.Errorf("unexpected invite %T", invite)
	}
}

// ChannelUsername prefers the main username and falls back to the first active collectible one
func ChannelUsername(ch *tg.Channel) string {
	if ch.Username != "" {
		return ch.Username
	}
	return activeUsername(ch.Usernames)
}

// UserUsername is ChannelUsername for users
func UserUsername(u *tg.User) string {
	if u.Username != "" {
		return u.Username
	}
	return activeUsername(u.Usernames)
}

func activeUsername(names []tg.Username) string {
	for _, n := range names {
		if n.Active {
			return n.Username
		}
	}
	return ""
}
