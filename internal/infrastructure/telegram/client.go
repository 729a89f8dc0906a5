// Package telegram contains the MTProto client of the member account
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/updates"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	channelerrors "github.com/stavropolsky/tg-track/internal/domain/channel/errors"
)

// maxFloodWait is the longest FLOOD_WAIT a request waits out before failing
const maxFloodWait = 30 * time.Second

// ErrAuthenticationFailed is returned when the member account cannot log in
var ErrAuthenticationFailed = errors.New("telegram authentication failed")

// UpdateHandler receives new messages of the member account
type UpdateHandler interface {
	OnNewChannelMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error
	OnNewMessage(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error
}

// peerAPI is the part of tg.Client used for peer lookups
type peerAPI interface {
	ContactsResolveUsername(ctx context.Context, request *tg.ContactsResolveUsernameRequest) (*tg.ContactsResolvedPeer, error)
	MessagesCheckChatInvite(ctx context.Context, hash string) (tg.ChatInviteClass, error)
	UsersGetUsers(ctx context.Context, id []tg.InputUserClass) ([]tg.UserClass, error)
	ChannelsJoinChannel(ctx context.Context, channel tg.InputChannelClass) (tg.UpdatesClass, error)
}

// MTProtoClient is the member account session. It receives channel updates
// and answers chat and user lookups for the admin commands.
type MTProtoClient struct {
	client *telegram.Client

	apiID       int
	apiHash     string
	phoneNumber string

	sessionStorage *PostgresSessionStorage
	dispatcher     tg.UpdateDispatcher
	handler        UpdateHandler
	updates        *updates.Manager
	codes          CodeProvider
	passwords      PasswordProvider

	connected     bool
	disconnecting bool
	mu            sync.RWMutex
	cancelFunc    context.CancelFunc
	runDone       chan struct{}

	api         peerAPI
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// MTProtoClientConfig holds configuration for MTProtoClient
type MTProtoClientConfig struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	// Password is the 2FA password, asked on the console when empty
	Password string
	// RateLimit is the number of lookup requests per second
	RateLimit int

	SessionStorage *PostgresSessionStorage
	StateStorage   *UpdatesStateStorage
	Logger         zerolog.Logger
}

// maskPhoneNumber masks phone number for logging (keeps first 2 and last 2 digits)
func maskPhoneNumber(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	return phone[:2] + strings.Repeat("*", len(phone)-4) + phone[len(phone)-2:]
}

// NewMTProtoClient creates a new MTProto client instance
func NewMTProtoClient(cfg MTProtoClientConfig) (*MTProtoClient, error) {
	if cfg.APIID == 0 {
		return nil, fmt.Errorf("APIID is required")
	}
	if cfg.APIHash == "" {
		return nil, fmt.Errorf("APIHash is required")
	}
	if cfg.PhoneNumber == "" {
		return nil, fmt.Errorf("PhoneNumber is required")
	}
	if cfg.SessionStorage == nil || cfg.StateStorage == nil {
		return nil, fmt.Errorf("session and state storage are required")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}

	dispatcher := tg.NewUpdateDispatcher()

	var passwords PasswordProvider = &ConsolePrompt{Prompt: "Enter 2FA password: "}
	if cfg.Password != "" {
		passwords = StaticPassword(cfg.Password)
	}

	return &MTProtoClient{
		apiID:          cfg.APIID,
		apiHash:        cfg.APIHash,
		phoneNumber:    cfg.PhoneNumber,
		sessionStorage: cfg.SessionStorage,
		dispatcher:     dispatcher,
		updates: updates.New(updates.Config{
			Handler:      dispatcher,
			Storage:      cfg.StateStorage,
			AccessHasher: cfg.StateStorage,
		}),
		codes:       &ConsolePrompt{Prompt: "Enter authentication code: "},
		passwords:   passwords,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit),
		logger:      cfg.Logger.With().Str("component", "mtproto_client").Str("phone", maskPhoneNumber(cfg.PhoneNumber)).Logger(),
	}, nil
}

// SetUpdateHandler routes new messages to h. It must be called before Connect.
func (c *MTProtoClient) SetUpdateHandler(h UpdateHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler = h
	c.dispatcher.OnNewChannelMessage(h.OnNewChannelMessage)
	c.dispatcher.OnNewMessage(h.OnNewMessage)
}

// Connect logs in and starts the update loop. It returns once the account
// is authorized; ctx bounds only that wait, the session outlives it.
func (c *MTProtoClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		c.logger.Debug().Msg("already connected")
		return nil
	}
	if c.disconnecting {
		c.mu.Unlock()
		return fmt.Errorf("disconnect in progress, cannot connect")
	}
	if c.handler == nil {
		c.mu.Unlock()
		return fmt.Errorf("update handler is not set")
	}
	// Keep the lock to prevent concurrent connection attempts
	defer c.mu.Unlock()

	c.logger.Info().Msg("connecting to Telegram")

	c.client = telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		SessionStorage: c.sessionStorage,
		UpdateHandler:  c.updates,
	})

	clientCtx, cancel := context.WithCancel(context.Background())
	c.cancelFunc = cancel

	readyChan := make(chan struct{})
	errChan := make(chan error, 1)
	c.runDone = make(chan struct{})
	runDone := c.runDone

	go func() {
		defer close(runDone)
		err := c.client.Run(clientCtx, func(ctx context.Context) error {
			status, err := c.client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to check auth status: %w", err)
			}

			if !status.Authorized {
				c.logger.Info().Msg("not authorized, starting authentication")
				if err := c.authenticateWithRetry(ctx, 3); err != nil {
					c.logger.Error().Err(err).Msg("authentication failed")
					return errors.Join(ErrAuthenticationFailed, err)
				}
			} else {
				c.logger.Info().Msg("session restored from storage")
			}

			self, err := c.client.Self(ctx)
			if err != nil {
				return fmt.Errorf("failed to get self: %w", err)
			}

			api := c.client.API()
			c.api = api
			c.connected = true
			c.logger.Info().Int64("user_id", self.ID).Msg("successfully connected to Telegram")
			close(readyChan)

			// Blocks until the client context is cancelled
			return c.updates.Run(ctx, api, self.ID, updates.AuthOptions{
				OnStart: func(context.Context) {
					c.logger.Info().Msg("update loop started")
				},
			})
		})

		select {
		case errChan <- err:
		default:
		}

		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error().Err(err).Msg("telegram client stopped")
		}
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	select {
	case <-readyChan:
		return nil
	case err := <-errChan:
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return fmt.Errorf("telegram client stopped before becoming ready")
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Disconnect stops the update loop and waits for the client to shut down.
// Multiple calls are safe.
func (c *MTProtoClient) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if c.disconnecting {
		c.mu.Unlock()
		c.logger.Debug().Msg("disconnect already in progress")
		return nil
	}
	if c.cancelFunc == nil {
		c.mu.Unlock()
		c.logger.Debug().Msg("already disconnected")
		return nil
	}

	c.logger.Info().Msg("disconnecting from Telegram")

	c.disconnecting = true
	cancelFunc := c.cancelFunc
	runDone := c.runDone
	c.mu.Unlock()

	cancelFunc()
	if runDone != nil {
		select {
		case <-runDone:
			c.logger.Debug().Msg("client stopped gracefully")
		case <-ctx.Done():
			c.logger.Warn().Msg("disconnect timeout reached while waiting for client shutdown")
		}
	}

	c.mu.Lock()
	c.client = nil
	c.api = nil
	c.connected = false
	c.cancelFunc = nil
	c.runDone = nil
	c.disconnecting = false
	c.mu.Unlock()

	c.logger.Info().Msg("successfully disconnected from Telegram")
	return nil
}

// IsConnected checks if client is connected to Telegram
func (c *MTProtoClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// call runs one lookup request under the rate limiter.
// A short FLOOD_WAIT is waited out and the request retried once.
func (c *MTProtoClient) call(ctx context.Context, fn func(api peerAPI) error) error {
	c.mu.RLock()
	api, connected := c.api, c.connected
	c.mu.RUnlock()
	if !connected || api == nil {
		return channelerrors.ErrNotConnected
	}

	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait cancelled: %w", err)
		}

		err := fn(api)
		wait, flood := tgerr.AsFloodWait(err)
		if !flood || attempt > 0 || wait > maxFloodWait {
			return err
		}

		c.logger.Warn().Dur("wait_duration", wait).Msg("flood wait detected, retrying request")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *MTProtoClient) resolveUsername(ctx context.Context, username string) (*tg.ContactsResolvedPeer, error) {
	username = strings.TrimPrefix(username, "@")

	var resolved *tg.ContactsResolvedPeer
	err := c.call(ctx, func(api peerAPI) error {
		var err error
		resolved, err = api.ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{Username: username})
		return err
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

// FetchByHandle fetches a public channel by username
func (c *MTProtoClient) FetchByHandle(ctx context.Context, handle string) (*channelentities.ChatMetadata, error) {
	resolved, err := c.resolveUsername(ctx, handle)
	if err != nil {
		c.logger.Error().Err(err).Str("handle", handle).Msg("failed to resolve channel")
		return nil, fmt.Errorf("failed to resolve channel: %w", err)
	}

	ch, ok := resolvedChannel(resolved)
	if !ok {
		return nil, channelerrors.ErrNotAChannel
	}
	return channelMetadata(ch), nil
}

// FetchByInvite fetches a chat by invite hash. Chats the member account
// has not joined are reported as a preview.
func (c *MTProtoClient) FetchByInvite(ctx context.Context, hash string) (*channelentities.ChatMetadata, error) {
	var invite tg.ChatInviteClass
	err := c.call(ctx, func(api peerAPI) error {
		var err error
		invite, err = api.MessagesCheckChatInvite(ctx, hash)
		return err
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to check chat invite")
		return nil, fmt.Errorf("failed to check chat invite: %w", err)
	}

	return inviteMetadata(invite)
}

// JoinChannel joins a public channel by username
func (c *MTProtoClient) JoinChannel(ctx context.Context, handle string) error {
	resolved, err := c.resolveUsername(ctx, handle)
	if err != nil {
		return fmt.Errorf("failed to resolve channel: %w", err)
	}
	ch, ok := resolvedChannel(resolved)
	if !ok {
		return channelerrors.ErrNotAChannel
	}

	c.logger.Info().Str("handle", handle).Msg("joining channel")

	err = c.call(ctx, func(api peerAPI) error {
		_, err := api.ChannelsJoinChannel(ctx, &tg.InputChannel{
			ChannelID:  ch.ID,
			AccessHash: ch.AccessHash,
		})
		return err
	})
	if err != nil {
		c.logger.Error().Err(err).Str("handle", handle).Msg("failed to join channel")
		return fmt.Errorf("failed to join channel: %w", err)
	}

	c.logger.Info().Str("handle", handle).Msg("successfully joined channel")
	return nil
}

// LookupUserByID returns the username of a user the member account has met.
// Marked chat ids never resolve.
func (c *MTProtoClient) LookupUserByID(ctx context.Context, id int64) (*channelentities.User, error) {
	if id <= 0 {
		return nil, channelerrors.ErrUserNotFound
	}

	var users []tg.UserClass
	err := c.call(ctx, func(api peerAPI) error {
		var err error
		users, err = api.UsersGetUsers(ctx, []tg.InputUserClass{&tg.InputUser{UserID: id}})
		return err
	})
	if tgerr.Is(err, "USER_ID_INVALID", "PEER_ID_INVALID") {
		return nil, channelerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	for _, u := range users {
		if user, ok := u.(*tg.User); ok && user.ID == id {
			return &channelentities.User{ID: user.ID, Username: UserUsername(user)}, nil
		}
	}
	return nil, channelerrors.ErrUserNotFound
}

// LookupUserByUsername returns the id of a user or channel.
// Channels get their marked id since they post as senders under it.
func (c *MTProtoClient) LookupUserByUsername(ctx context.Context, username string) (*channelentities.User, error) {
	resolved, err := c.resolveUsername(ctx, username)
	if tgerr.Is(err, "USERNAME_NOT_OCCUPIED", "USERNAME_INVALID") {
		return nil, channelerrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve username: %w", err)
	}

	user, ok := resolvedSender(resolved)
	if !ok {
		return nil, channelerrors.ErrUserNotFound
	}
	return user, nil
}
