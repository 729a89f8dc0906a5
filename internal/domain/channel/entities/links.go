package entities

import (
	"strconv"

	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// channelIDOffset is the Bot API offset applied to channel and supergroup ids
const channelIDOffset int64 = -1000000000000

// MarkChannelID converts an MTProto channel id to its Bot API form
func MarkChannelID(channelID int64) int64 {
	return channelIDOffset - channelID
}

// MarkChatID converts an MTProto basic group id to its Bot API form
func MarkChatID(chatID int64) int64 {
	return -chatID
}

// PrivateLinkID returns the id used in "https://t.me/c/<id>/<msg>" links
func PrivateLinkID(chatID int64) string {
	if chatID <= channelIDOffset {
		return strconv.FormatInt(channelIDOffset-chatID, 10)
	}
	if chatID < 0 {
		chatID = -chatID
	}
	return strconv.FormatInt(chatID, 10)
}

// MessageLink builds the back-link to a message. It returns false when no
// link can be built: the type is unknown or a public channel has no username.
func MessageLink(channelType registryentities.ChannelType, username string, chatID int64, messageID int) (string, bool) {
	switch channelType {
	case registryentities.ChannelTypePublic:
		if username == "" {
			return "", false
		}
		return registryentities.URLPrefix + username + "/" + strconv.Itoa(messageID), true
	case registryentities.ChannelTypePrivate:
		return registryentities.URLPrefix + "c/" + PrivateLinkID(chatID) + "/" + strconv.Itoa(messageID), true
	default:
		return "", false
	}
}

// FromChatRef returns the Bot API "from_chat_id" for a source channel:
// "@username" for public channels with a username, the numeric id otherwise.
func FromChatRef(channelType registryentities.ChannelType, username string, chatID int64) any {
	if channelType == registryentities.ChannelTypePublic && username != "" {
		return "@" + username
	}
	return chatID
}
