package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Identity kinds. Group and channel identities share the group namespace.
const (
	KindUser    = "user"
	KindGroup   = "group"
	KindChannel = "channel"
)

// Message is one inbound chat message
type Message struct {
	ID       int
	ChatID   string
	SenderID string
	Body     string

	FromMe      bool
	IsGroup     bool
	HasMedia    bool
	HasQuoted   bool
	QuotedID    int
	IsForwarded bool

	// SenderIsLinkedDevice marks secondary or automated accounts, as reported by the network
	SenderIsLinkedDevice bool

	Timestamp time.Time
}

// Media is a binary attachment
type Media struct {
	Data     []byte
	MimeType string
	Filename string
	Caption  string
}

// IsImage reports whether the media should be sent as a photo
func (m Media) IsImage() bool {
	return strings.HasPrefix(m.MimeType, "image/") && m.MimeType != "image/gif"
}

// Presence is a transient chat action
type Presence string

const (
	PresenceTyping    Presence = "typing"
	PresenceRecording Presence = "recording"
	PresencePaused    Presence = "paused"
)

// QuotedMessage summarises the message a command replied to
type QuotedMessage struct {
	Body     string `json:"body"`
	From     string `json:"from"`
	HasMedia bool   `json:"hasMedia"`
}

// Contact summarises a participant
type Contact struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	IsMyContact bool   `json:"isMyContact"`
}

// GroupInfo summarises a group chat
type GroupInfo struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	ParticipantsCount int    `json:"participantsCount"`
}

// Identity builds an identity string such as "user:42"
func Identity(kind string, id int64) string {
	return kind + ":" + strconv.FormatInt(id, 10)
}

// ParseIdentity splits an identity into kind and numeric id
func ParseIdentity(identity string) (string, int64, error) {
	kind, raw, ok := strings.Cut(identity, ":")
	if !ok {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidIdentity, identity)
	}

	switch kind {
	case KindUser, KindGroup, KindChannel:
	default:
		return "", 0, fmt.Errorf("%w: unknown kind %q", ErrInvalidIdentity, kind)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidIdentity, identity)
	}

	return kind, id, nil
}

// IsGroupIdentity reports whether identity lives in the group namespace
func IsGroupIdentity(identity string) bool {
	return strings.HasPrefix(identity, KindGroup+":") || strings.HasPrefix(identity, KindChannel+":")
}

// Privileges lists the owner and moderators allowed to run owner-only commands
type Privileges struct {
	Owner string
	Mods  []string
}

// Allows reports whether identity is the owner or a moderator
func (p Privileges) Allows(identity string) bool {
	if identity == "" {
		return false
	}
	if identity == p.Owner {
		return true
	}
	for _, m := range p.Mods {
		if m == identity {
			return true
		}
	}
	return false
}
