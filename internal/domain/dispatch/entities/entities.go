package entities

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	settingsentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
)

// CommandContext describes the invoking message to the executor
type CommandContext struct {
	From        string  `json:"from"`
	Author      string  `json:"author"`
	Sender      string  `json:"sender"`
	IsGroup     bool    `json:"isGroup"`
	GroupID     *string `json:"groupId"`
	ChatID      string  `json:"chatId"`
	MessageID   int     `json:"messageId"`
	Timestamp   int64   `json:"timestamp"`
	HasMedia    bool    `json:"hasMedia"`
	HasQuoted   bool    `json:"hasQuoted"`
	IsForwarded bool    `json:"isForwarded"`

	IsOwner    bool `json:"isOwner"`
	IsAdmin    bool `json:"isAdmin"`
	BotIsAdmin bool `json:"botIsAdmin"`

	Settings settingsentities.Settings `json:"settings"`

	Quoted  *domain.QuotedMessage `json:"quoted,omitempty"`
	Contact *domain.Contact       `json:"contact,omitempty"`
	Group   *domain.GroupInfo     `json:"group,omitempty"`
}

// Command is one parsed command ready for dispatch
type Command struct {
	Name     string
	Args     []string
	Message  domain.Message
	Settings settingsentities.Settings
}

// Result is the executor's answer
type Result struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
	Media       json.RawMessage `json:"media,omitempty"`
	MediaURL    string          `json:"mediaUrl,omitempty"`
	MediaBase64 string          `json:"mediaBase64,omitempty"`
	MediaType   string          `json:"mediaType,omitempty"`
	Caption     string          `json:"caption,omitempty"`
	Filename    string          `json:"filename,omitempty"`
}

// HasMedia reports whether the result references an attachment
func (r *Result) HasMedia() bool {
	if r.MediaURL != "" || r.MediaBase64 != "" {
		return true
	}
	media := bytes.TrimSpace(r.Media)
	switch string(media) {
	case "", "null", "false", `""`, "0":
		return false
	}
	return true
}

// MediaSource returns the attachment URL. A string media field is
// read as a URL when mediaUrl is absent.
func (r *Result) MediaSource() string {
	if r.MediaURL != "" {
		return r.MediaURL
	}
	var s string
	if err := json.Unmarshal(r.Media, &s); err == nil && strings.Contains(s, "://") {
		return s
	}
	return ""
}

// MediaCaption is the caption or, failing that, the message
func (r *Result) MediaCaption() string {
	if r.Caption != "" {
		return r.Caption
	}
	return r.Message
}
