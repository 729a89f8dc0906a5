package business

import (
	"context"
	"errors"
	"sync"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	"github.com/stavropolsky/tg-track/internal/domain/monitor/entities"
	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

type mockRegistry struct {
	channels     map[int64]registryentities.ChannelType
	keywords     []string
	blackIDs     map[int64]bool
	blackNames   map[string]bool
	blacklistErr error
	channelErr   error
	keywordErr   error

	// typeAfterAdmit replaces channels on the second ChannelType call
	typeAfterAdmit map[int64]registryentities.ChannelType
	typeCalls      int
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{
		channels: map[int64]registryentities.ChannelType{
			-1001111: registryentities.ChannelTypePublic,
			-1002222: registryentities.ChannelTypePrivate,
		},
		keywords:   []string{"alpha", "beta", "Sale"},
		blackIDs:   map[int64]bool{},
		blackNames: map[string]bool{},
	}
}

func (m *mockRegistry) IsBlacklisted(_ context.Context, id registryentities.Identifier) (bool, error) {
	if m.blacklistErr != nil {
		return false, m.blacklistErr
	}
	if id.IsName() {
		return m.blackNames[id.Name()], nil
	}
	return m.blackIDs[id.ID()], nil
}

func (m *mockRegistry) ChannelType(_ context.Context, chatID int64) (registryentities.ChannelType, bool, error) {
	m.typeCalls++
	if m.channelErr != nil {
		return "", false, m.channelErr
	}
	channels := m.channels
	if m.typeAfterAdmit != nil && m.typeCalls > 1 {
		channels = m.typeAfterAdmit
	}
	t, ok := channels[chatID]
	return t, ok, nil
}

func (m *mockRegistry) ListKeywords(_ context.Context) ([]registryentities.Keyword, error) {
	if m.keywordErr != nil {
		return nil, m.keywordErr
	}
	out := make([]registryentities.Keyword, len(m.keywords))
	for i, kw := range m.keywords {
		out[i] = registryentities.Keyword{ID: uint(i + 1), Keyword: kw}
	}
	return out, nil
}

type mockDestination struct {
	info  *channelentities.ChannelInfo
	err   error
	calls int
}

func (m *mockDestination) Locate(_ context.Context) (*channelentities.ChannelInfo, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.info, nil
}

func (m *mockDestination) IsDestination(chatID int64) bool {
	return m.info != nil && m.info.ChatID == chatID
}

type sentText struct {
	chatID int64
	text   string
}

type mockSender struct {
	mu     sync.Mutex
	copies []entities.CopyRequest
	texts  []sentText
	err    error
}

func (m *mockSender) CopyMessage(_ context.Context, req entities.CopyRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.copies = append(m.copies, req)
	return nil
}

func (m *mockSender) SendText(_ context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.texts = append(m.texts, sentText{chatID: chatID, text: text})
	return nil
}

type mockPublisher struct {
	published []entities.RelayedMessage
	err       error
	// block waits for the context like a stalled broker
	block bool
}

func (m *mockPublisher) PublishRelayed(ctx context.Context, msg entities.RelayedMessage) error {
	m.published = append(m.published, msg)
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return m.err
}

var errStorage = errors.New("connection refused")

const destinationID int64 = -1009999

func newMockDestination() *mockDestination {
	return &mockDestination{info: &channelentities.ChannelInfo{ChatID: destinationID, Username: "relay_out"}}
}

func publicEvent(text string) entities.IncomingMessageEvent {
	return entities.IncomingMessageEvent{
		SourceChatID:   -1001111,
		SourceUsername: "news",
		MessageID:      42,
		SenderID:       777,
		SenderUsername: "reporter",
		Text:           text,
	}
}
