// Package entities contains registry domain entities
package entities

import (
	"strconv"
	"strings"
	"time"
)

// ChannelType classifies how a tracked channel is reached
type ChannelType string

const (
	ChannelTypePublic  ChannelType = "public"
	ChannelTypePrivate ChannelType = "private"
)

// Valid reports whether t is a known channel type
func (t ChannelType) Valid() bool {
	return t == ChannelTypePublic || t == ChannelTypePrivate
}

// URLPrefix starts every canonical channel url
const URLPrefix = "https://t.me/"

// CanonicalURL brings a channel reference to the "https://t.me/<handle>" form
func CanonicalURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, URLPrefix) {
		return url
	}
	return URLPrefix + strings.TrimLeft(url, "@")
}

// Channel is a tracked source chat
type Channel struct {
	ID        uint        `gorm:"primaryKey"`
	ChatID    int64       `gorm:"column:chat_id;uniqueIndex;not null"`
	URL       string      `gorm:"column:url;uniqueIndex;not null"`
	Type      ChannelType `gorm:"column:type;size:16;not null"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
}

// TableName returns the table name for Channel
func (Channel) TableName() string {
	return "channels"
}

// Keyword is a tracked keyword, stored as entered
type Keyword struct {
	ID        uint      `gorm:"primaryKey"`
	Keyword   string    `gorm:"column:keyword;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for Keyword
func (Keyword) TableName() string {
	return "keywords"
}

// BlacklistEntry is a sender whose messages are never relayed
type BlacklistEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex;not null"`
	Username  *string   `gorm:"column:username;size:64;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for BlacklistEntry
func (BlacklistEntry) TableName() string {
	return "blacklist"
}

// DisplayUsername returns "@name" or "Unknown" when no username is stored
func (e BlacklistEntry) DisplayUsername() string {
	if e.Username == nil || *e.Username == "" {
		return "Unknown"
	}
	return "@" + *e.Username
}

// Identifier selects a blacklist entry either by numeric id or by username
type Identifier struct {
	id     int64
	name   string
	byName bool
}

// ByID builds an Identifier for a numeric user or chat id
func ByID(id int64) Identifier {
	return Identifier{id: id}
}

// ByName builds an Identifier for a username. The "@" sigil and case are dropped.
func ByName(username string) Identifier {
	return Identifier{name: NormalizeUsername(username), byName: true}
}

// ParseIdentifier reads a command argument: a signed integer is an id,
// anything else is a username.
func ParseIdentifier(raw string) (Identifier, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identifier{}, false
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ByID(id), true
	}
	name := NormalizeUsername(raw)
	if name == "" {
		return Identifier{}, false
	}
	return ByName(name), true
}

// IsName reports whether the identifier is a username
func (i Identifier) IsName() bool {
	return i.byName
}

// ID returns the numeric id. It is zero for a username identifier.
func (i Identifier) ID() int64 {
	return i.id
}

// Name returns the normalized username. It is empty for an id identifier.
func (i Identifier) Name() string {
	return i.name
}

func (i Identifier) String() string {
	if i.byName {
		return "@" + i.name
	}
	return strconv.FormatInt(i.id, 10)
}

// NormalizeUsername strips the "@" sigil and lowercases
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}
