package entities

import (
	"strings"

	channelerrors "github.com/stavropolsky/tg-track/internal/domain/channel/errors"
	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// Reference is a parsed channel reference
type Reference struct {
	// Handle is set for public references, without "@"
	Handle string
	// InviteHash is set for private invite links
	InviteHash string
}

// IsInvite reports whether the reference is a private invite link
func (r Reference) IsInvite() bool {
	return r.InviteHash != ""
}

// Type is the channel type the reference resolves to
func (r Reference) Type() registryentities.ChannelType {
	if r.IsInvite() {
		return registryentities.ChannelTypePrivate
	}
	return registryentities.ChannelTypePublic
}

// Canonical returns the stored url form
func (r Reference) Canonical() string {
	if r.IsInvite() {
		return registryentities.URLPrefix + "+" + r.InviteHash
	}
	return registryentities.URLPrefix + r.Handle
}

// RawHandle returns "@handle" or the canonical invite link
func (r Reference) RawHandle() string {
	if r.IsInvite() {
		return r.Canonical()
	}
	return "@" + r.Handle
}

var hostPrefixes = []string{"t.me/", "telegram.me/", "telegram.dog/"}

// ParseReference accepts "@name", "name", "t.me/name" and "https://t.me/name/123"
// as public references, and "https://t.me/+HASH", "https://t.me/joinchat/HASH"
// and "tg://join?invite=HASH" as invite links.
func ParseReference(raw string) (Reference, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Reference{}, channelerrors.ErrInvalidReference
	}

	if rest, ok := cutPrefixFold(s, "tg://join?invite="); ok {
		return inviteReference(rest)
	}
	if rest, ok := cutPrefixFold(s, "tg://resolve?domain="); ok {
		return handleReference(rest)
	}

	if rest, ok := cutPrefixFold(s, "https://"); ok {
		s = rest
	} else if rest, ok := cutPrefixFold(s, "http://"); ok {
		s = rest
	}
	if rest, ok := cutPrefixFold(s, "www."); ok {
		s = rest
	}

	for _, host := range hostPrefixes {
		rest, ok := cutPrefixFold(s, host)
		if !ok {
			continue
		}
		if hash, ok := strings.CutPrefix(rest, "+"); ok {
			return inviteReference(hash)
		}
		if hash, ok := cutPrefixFold(rest, "joinchat/"); ok {
			return inviteReference(hash)
		}
		return handleReference(rest)
	}

	if strings.Contains(s, "/") {
		return Reference{}, channelerrors.ErrInvalidReference
	}

	return handleReference(s)
}

func inviteReference(s string) (Reference, error) {
	hash := firstSegment(s)
	if hash == "" {
		return Reference{}, channelerrors.ErrInvalidReference
	}
	return Reference{InviteHash: hash}, nil
}

func handleReference(s string) (Reference, error) {
	handle := strings.TrimLeft(firstSegment(s), "@")
	if !validHandle(handle) {
		return Reference{}, channelerrors.ErrInvalidReference
	}
	return Reference{Handle: handle}, nil
}

// firstSegment drops any path, query or fragment after the first segment
func firstSegment(s string) string {
	if i := strings.IndexAny(s, "/?#&"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func validHandle(handle string) bool {
	if handle == "" {
		return false
	}
	for _, c := range handle {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
