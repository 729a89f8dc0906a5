package telegram

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

const promptTimeout = 2 * time.Minute

// CodeProvider provides the login code sent by Telegram
type CodeProvider interface {
	GetCode(ctx context.Context) (string, error)
}

// PasswordProvider provides the 2FA password
type PasswordProvider interface {
	GetPassword(ctx context.Context) (string, error)
}

// ConsolePrompt reads a line from the console after printing a prompt
type ConsolePrompt struct {
	Prompt string
	In     io.Reader
	Out    io.Writer
}

// read prompts and waits for one line, the context or prompt timeout
func (p *ConsolePrompt) read(ctx context.Context) (string, error) {
	in, out := p.In, p.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprint(out, p.Prompt)

	lineChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			errChan <- fmt.Errorf("failed to read input: %w", err)
			return
		}
		lineChan <- strings.TrimSpace(line)
	}()

	select {
	case line := <-lineChan:
		return line, nil
	case err := <-errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("input cancelled: %w", ctx.Err())
	case <-time.After(promptTimeout):
		return "", fmt.Errorf("input timeout")
	}
}

// GetCode prompts for the login code
func (p *ConsolePrompt) GetCode(ctx context.Context) (string, error) {
	return p.read(ctx)
}

// GetPassword prompts for the 2FA password
func (p *ConsolePrompt) GetPassword(ctx context.Context) (string, error) {
	return p.read(ctx)
}

// StaticPassword returns a configured 2FA password
type StaticPassword string

// GetPassword returns the configured password
func (p StaticPassword) GetPassword(context.Context) (string, error) {
	return string(p), nil
}

// authenticateWithRetry performs authentication with backoff for FloodWait and transient errors
func (c *MTProtoClient) authenticateWithRetry(ctx context.Context, maxRetries int) error {
	var lastErr error
	baseDelay := 1 * time.Second

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := c.performAuthentication(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if isNonRetryableError(err) {
			c.logger.Error().Err(err).Msg("non-retryable authentication error")
			return fmt.Errorf("authentication failed with non-retryable error: %w", err)
		}

		if wait, ok := tgerr.AsFloodWait(err); ok {
			c.logger.Warn().
				Int("attempt", attempt+1).
				Dur("wait_duration", wait).
				Msg("flood wait detected, waiting before retry")

			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if tgerr.Is(err, "SESSION_REVOKED", "AUTH_KEY_UNREGISTERED") {
			c.logger.Error().Msg("session has been revoked, need to re-authenticate")
			if err := c.sessionStorage.DeleteSession(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("failed to delete revoked session")
			}
			continue
		}

		if tgerr.Is(err, "PHONE_CODE_INVALID") {
			c.logger.Error().Msg("invalid phone code provided")
			continue
		}

		delay := baseDelay * (1 << attempt)
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}

		c.logger.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("retry_delay", delay).
			Msg("authentication failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("authentication failed after %d attempts: %w", maxRetries, lastErr)
}

// isNonRetryableError checks if an error should fail authentication immediately
func isNonRetryableError(err error) bool {
	return tgerr.Is(err,
		"PHONE_NUMBER_BANNED",
		"PHONE_NUMBER_INVALID",
		"API_ID_INVALID",
		"API_ID_PUBLISHED_FLOOD",
		"AUTH_TOKEN_INVALID",
		"PASSWORD_HASH_INVALID",
		"PHONE_NUMBER_OCCUPIED",
		"PHONE_PASSWORD_PROTECTED",
	)
}

// memberAuthenticator answers the login flow of the member account
type memberAuthenticator struct {
	phone     string
	codes     CodeProvider
	passwords PasswordProvider
	client    *MTProtoClient
}

func (a memberAuthenticator) Phone(context.Context) (string, error) {
	return a.phone, nil
}

func (a memberAuthenticator) Password(ctx context.Context) (string, error) {
	a.client.logger.Info().Msg("2FA is enabled, requesting password")
	password, err := a.passwords.GetPassword(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get 2FA password: %w", err)
	}
	return password, nil
}

func (a memberAuthenticator) Code(ctx context.Context, _ *tg.AuthSentCode) (string, error) {
	a.client.logger.Info().Msg("authentication code has been sent")
	return a.codes.GetCode(ctx)
}

func (memberAuthenticator) AcceptTermsOfService(_ context.Context, tos tg.HelpTermsOfService) error {
	return &auth.SignUpRequired{TermsOfService: tos}
}

func (memberAuthenticator) SignUp(context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("member account must be registered before use")
}

// performAuthentication performs a single authentication attempt
func (c *MTProtoClient) performAuthentication(ctx context.Context) error {
	flow := auth.NewFlow(memberAuthenticator{
		phone:     c.phoneNumber,
		codes:     c.codes,
		passwords: c.passwords,
		client:    c,
	}, auth.SendCodeOptions{})

	if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
		return err
	}

	c.logger.Info().Msg("authentication successful")
	return nil
}
