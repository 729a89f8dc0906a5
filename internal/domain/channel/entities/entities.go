// Package entities contains channel resolution entities
package entities

import (
	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// ChatMetadata is what the platform reports about a chat
type ChatMetadata struct {
	// ChatID is the marked id, see MarkChannelID
	ChatID   int64
	Username string
	Title    string
	// Preview is set when the chat is only visible through an invite preview
	Preview bool
	// Left is set for a public channel the member account has not joined
	Left bool
}

// ChannelInfo is a resolved channel reference
type ChannelInfo struct {
	ChatID   int64
	Type     registryentities.ChannelType
	Username string
	Title    string
	// RawChatHandle is the handle the chat was fetched by: "@name" or the invite link
	RawChatHandle string
	// URL is the canonical form stored in the registry
	URL  string
	Left bool
}

// User is a platform account or channel-as-sender found by id or username
type User struct {
	ID       int64
	Username string
}
