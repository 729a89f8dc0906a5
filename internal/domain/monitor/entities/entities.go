// Package entities contains the monitoring pipeline entities
package entities

import "time"

// IncomingMessageEvent is one inbound message seen by the member account
type IncomingMessageEvent struct {
	SourceChatID   int64
	SourceUsername string
	MessageID      int

	// SenderID is the user id, or the posting chat id when SenderIsChannel is set
	SenderID        int64
	SenderUsername  string
	SenderIsChannel bool

	Text     string
	Caption  string
	HasMedia bool
}

// TextToCheck returns the text, or the caption when there is no text
func (e IncomingMessageEvent) TextToCheck() string {
	if e.Text != "" {
		return e.Text
	}
	return e.Caption
}

// Verdict is the outcome of admission
type Verdict int

const (
	VerdictDrop Verdict = iota
	VerdictForward
)

// DropReason explains why a message was not forwarded
type DropReason string

const (
	DropBlacklisted  DropReason = "blacklisted"
	DropUntracked    DropReason = "untracked"
	DropNoText       DropReason = "no_text"
	DropNoMatch      DropReason = "no_match"
	DropLookupFailed DropReason = "lookup_failed"
	DropDestination  DropReason = "destination"
)

// Decision is the admission result for one event
type Decision struct {
	Verdict Verdict
	Reason  DropReason
	Keyword string
	Text    string
}

// Drop builds a drop decision
func Drop(reason DropReason) Decision {
	return Decision{Verdict: VerdictDrop, Reason: reason}
}

// Forward builds a forward decision for the matched keyword
func Forward(keyword, text string) Decision {
	return Decision{Verdict: VerdictForward, Keyword: keyword, Text: text}
}

// Forwarded reports whether the message should be relayed
func (d Decision) Forwarded() bool {
	return d.Verdict == VerdictForward
}

// RelayMode is how a message reached the destination
type RelayMode string

const (
	RelayModeCopy RelayMode = "copy"
	RelayModeSend RelayMode = "send"
)

// RelayedMessage describes a completed relay
type RelayedMessage struct {
	EventID       string    `json:"event_id"`
	SourceChatID  int64     `json:"source_chat_id"`
	MessageID     int       `json:"message_id"`
	DestinationID int64     `json:"destination_id"`
	Keyword       string    `json:"keyword"`
	Link          string    `json:"link,omitempty"`
	HasMedia      bool      `json:"has_media"`
	Mode          RelayMode `json:"mode"`
	Timestamp     time.Time `json:"timestamp"`
}

// CopyRequest asks the bot to copy a source message into a chat
type CopyRequest struct {
	ChatID int64
	// FromChatID is "@username" or a numeric chat id
	FromChatID any
	MessageID  int
	// Caption is MarkdownV2
	Caption string
}
