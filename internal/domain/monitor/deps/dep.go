// Package deps declares the collaborators of the monitoring pipeline
package deps

import (
	"context"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// AdmissionRegistry is the part of the registry read on every message
type AdmissionRegistry interface {
	IsBlacklisted(ctx context.Context, id registryentities.Identifier) (bool, error)
	ChannelType(ctx context.Context, chatID int64) (registryentities.ChannelType, bool, error)
	ListKeywords(ctx context.Context) ([]registryentities.Keyword, error)
}

// DestinationLocator returns the destination channel identity
type DestinationLocator interface {
	Locate(ctx context.Context) (*channelentities.ChannelInfo, error)
	IsDestination(chatID int64) bool
}

// DestinationSender delivers relayed content through the bot
type DestinationSender interface {
	CopyMessage(ctx context.Context, req entities.CopyRequest) error
	// SendText sends MarkdownV2 text
	SendText(ctx context.Context, chatID int64, text string) error
}

// RelayPublisher announces completed relays
type RelayPublisher interface {
	PublishRelayed(ctx context.Context, msg entities.RelayedMessage) error
}

// MessageProcessor admits and relays one inbound message
type MessageProcessor interface {
	Process(ctx context.Context, event entities.IncomingMessageEvent) entities.Decision
}
