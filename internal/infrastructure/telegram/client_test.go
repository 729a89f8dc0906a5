package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	channelerrors "github.com/stavropolsky/tg-track/internal/domain/channel/errors"
)

type fakeAPI struct {
	resolved    map[string]*tg.ContactsResolvedPeer
	resolveErrs []error
	invites     map[string]tg.ChatInviteClass
	users       []tg.UserClass
	joined      []*tg.InputChannel
	resolves    int
}

func (f *fakeAPI) ContactsResolveUsername(_ context.Context, req *tg.ContactsResolveUsernameRequest) (*tg.ContactsResolvedPeer, error) {
	f.resolves++
	if len(f.resolveErrs) > 0 {
		err := f.resolveErrs[0]
		f.resolveErrs = f.resolveErrs[1:]
		return nil, err
	}
	r, ok := f.resolved[req.Username]
	if !ok {
		return nil, tgerr.New(400, "USERNAME_NOT_OCCUPIED")
	}
	return r, nil
}

func (f *fakeAPI) MessagesCheckChatInvite(_ context.Context, hash string) (tg.ChatInviteClass, error) {
	i, ok := f.invites[hash]
	if !ok {
		return nil, tgerr.New(400, "INVITE_HASH_EXPIRED")
	}
	return i, nil
}

func (f *fakeAPI) UsersGetUsers(_ context.Context, _ []tg.InputUserClass) ([]tg.UserClass, error) {
	if f.users == nil {
		return nil, tgerr.New(400, "USER_ID_INVALID")
	}
	return f.users, nil
}

func (f *fakeAPI) ChannelsJoinChannel(_ context.Context, channel tg.InputChannelClass) (tg.UpdatesClass, error) {
	f.joined = append(f.joined, channel.(*tg.InputChannel))
	return &tg.Updates{}, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		resolved: map[string]*tg.ContactsResolvedPeer{
			"news": {
				Peer:  &tg.PeerChannel{ChannelID: 1234},
				Chats: []tg.ChatClass{&tg.Channel{ID: 1234, AccessHash: 99, Title: "News", Username: "news", Left: true}},
			},
			"spammer": {
				Peer:  &tg.PeerUser{UserID: 555},
				Users: []tg.UserClass{&tg.User{ID: 555, Username: "Spammer"}},
			},
			"collectible": {
				Peer: &tg.PeerChannel{ChannelID: 77},
				Chats: []tg.ChatClass{&tg.Channel{ID: 77, Usernames: []tg.Username{
					{Username: "old", Active: false},
					{Username: "collectible", Active: true},
				}}},
			},
		},
		invites: map[string]tg.ChatInviteClass{
			"member":  &tg.ChatInviteAlready{Chat: &tg.Channel{ID: 2222, Title: "Private"}},
			"group":   &tg.ChatInviteAlready{Chat: &tg.Chat{ID: 333, Title: "Group"}},
			"peek":    &tg.ChatInvitePeek{Chat: &tg.Channel{ID: 4444, Title: "Peek"}},
			"outside": &tg.ChatInvite{Title: "Closed"},
		},
	}
}

func newConnectedClient(api *fakeAPI) *MTProtoClient {
	return &MTProtoClient{
		connected:   true,
		api:         api,
		rateLimiter: rate.NewLimiter(rate.Inf, 1),
		logger:      zerolog.Nop(),
	}
}

func TestMTProtoClient_NotConnected(t *testing.T) {
	client := &MTProtoClient{rateLimiter: rate.NewLimiter(rate.Inf, 1), logger: zerolog.Nop()}
	ctx := context.Background()

	_, err := client.FetchByHandle(ctx, "news")
	assert.ErrorIs(t, err, channelerrors.ErrNotConnected)

	_, err = client.FetchByInvite(ctx, "member")
	assert.ErrorIs(t, err, channelerrors.ErrNotConnected)

	assert.ErrorIs(t, client.JoinChannel(ctx, "news"), channelerrors.ErrNotConnected)
	assert.False(t, client.IsConnected())
}

func TestMTProtoClient_FetchByHandle(t *testing.T) {
	client := newConnectedClient(newFakeAPI())
	ctx := context.Background()

	meta, err := client.FetchByHandle(ctx, "@news")
	require.NoError(t, err)
	assert.Equal(t, &channelentities.ChatMetadata{
		ChatID:   -1000000001234,
		Username: "news",
		Title:    "News",
		Left:     true,
	}, meta)

	meta, err = client.FetchByHandle(ctx, "collectible")
	require.NoError(t, err)
	assert.Equal(t, "collectible", meta.Username)

	_, err = client.FetchByHandle(ctx, "spammer")
	assert.ErrorIs(t, err, channelerrors.ErrNotAChannel)

	_, err = client.FetchByHandle(ctx, "missing")
	assert.True(t, tgerr.Is(err, "USERNAME_NOT_OCCUPIED"))
}

func TestMTProtoClient_FetchByInvite(t *testing.T) {
	client := newConnectedClient(newFakeAPI())
	ctx := context.Background()

	tests := []struct {
		hash string
		want *channelentities.ChatMetadata
	}{
		{"member", &channelentities.ChatMetadata{ChatID: -1000000002222, Title: "Private"}},
		{"group", &channelentities.ChatMetadata{ChatID: -333, Title: "Group"}},
		{"peek", &channelentities.ChatMetadata{ChatID: -1000000004444, Title: "Peek", Preview: true}},
		{"outside", &channelentities.ChatMetadata{Title: "Closed", Preview: true}},
	}

	for _, tt := range tests {
		t.Run(tt.hash, func(t *testing.T) {
			meta, err := client.FetchByInvite(ctx, tt.hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta)
		})
	}

	_, err := client.FetchByInvite(ctx, "expired")
	assert.Error(t, err)
}

func TestMTProtoClient_JoinChannelUsesAccessHash(t *testing.T) {
	api := newFakeAPI()
	client := newConnectedClient(api)

	require.NoError(t, client.JoinChannel(context.Background(), "news"))
	require.Len(t, api.joined, 1)
	assert.Equal(t, &tg.InputChannel{ChannelID: 1234, AccessHash: 99}, api.joined[0])
}

func TestMTProtoClient_LookupUserByUsername(t *testing.T) {
	client := newConnectedClient(newFakeAPI())
	ctx := context.Background()

	user, err := client.LookupUserByUsername(ctx, "spammer")
	require.NoError(t, err)
	assert.Equal(t, &channelentities.User{ID: 555, Username: "Spammer"}, user)

	user, err = client.LookupUserByUsername(ctx, "news")
	require.NoError(t, err)
	assert.Equal(t, &channelentities.User{ID: -1000000001234, Username: "news"}, user)

	_, err = client.LookupUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, channelerrors.ErrUserNotFound)
}

func TestMTProtoClient_LookupUserByID(t *testing.T) {
	api := newFakeAPI()
	client := newConnectedClient(api)
	ctx := context.Background()

	_, err := client.LookupUserByID(ctx, 555)
	assert.ErrorIs(t, err, channelerrors.ErrUserNotFound)

	_, err = client.LookupUserByID(ctx, -1000000001234)
	assert.ErrorIs(t, err, channelerrors.ErrUserNotFound)

	api.users = []tg.UserClass{&tg.User{ID: 555, Username: "spammer"}}
	user, err := client.LookupUserByID(ctx, 555)
	require.NoError(t, err)
	assert.Equal(t, "spammer", user.Username)
}

func TestMTProtoClient_RetriesShortFloodWait(t *testing.T) {
	api := newFakeAPI()
	api.resolveErrs = []error{tgerr.New(420, "FLOOD_WAIT_0")}
	client := newConnectedClient(api)

	_, err := client.FetchByHandle(context.Background(), "news")
	require.NoError(t, err)
	assert.Equal(t, 2, api.resolves)

	api.resolveErrs = []error{tgerr.New(420, "FLOOD_WAIT_0"), tgerr.New(420, "FLOOD_WAIT_0")}
	api.resolves = 0
	_, err = client.FetchByHandle(context.Background(), "news")
	_, flood := tgerr.AsFloodWait(err)
	assert.True(t, flood)
	assert.Equal(t, 2, api.resolves)
}

func TestMaskPhoneNumber(t *testing.T) {
	assert.Equal(t, "+7*******67", maskPhoneNumber("+7901234567"))
	assert.Equal(t, "***", maskPhoneNumber("123"))
}

func TestConsolePrompt(t *testing.T) {
	var out strings.Builder
	p := &ConsolePrompt{Prompt: "Enter authentication code: ", In: strings.NewReader(" 12345 \n"), Out: &out}

	code, err := p.GetCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12345", code)
	assert.Equal(t, "Enter authentication code: ", out.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := &ConsolePrompt{In: blockingReader{}, Out: &out}
	_, err = blocked.GetPassword(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStaticPassword(t *testing.T) {
	password, err := StaticPassword("secret").GetPassword(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", password)
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}

func TestIsNonRetryableError(t *testing.T) {
	assert.True(t, isNonRetryableError(tgerr.New(400, "PHONE_NUMBER_INVALID")))
	assert.False(t, isNonRetryableError(tgerr.New(400, "PHONE_CODE_INVALID")))
	assert.False(t, isNonRetryableError(errors.New("network")))
}

type nopUpdateHandler struct{}

func (nopUpdateHandler) OnNewChannelMessage(context.Context, tg.Entities, *tg.UpdateNewChannelMessage) error {
	return nil
}

func (nopUpdateHandler) OnNewMessage(context.Context, tg.Entities, *tg.UpdateNewMessage) error {
	return nil
}

func TestMTProtoClient_ConnectRequiresHandler(t *testing.T) {
	client := &MTProtoClient{logger: zerolog.Nop()}

	err := client.Connect(context.Background())
	assert.ErrorContains(t, err, "update handler is not set")

	client.dispatcher = tg.NewUpdateDispatcher()
	client.SetUpdateHandler(nopUpdateHandler{})
	assert.NotNil(t, client.handler)
}
