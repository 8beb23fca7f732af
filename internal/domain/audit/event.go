package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names an auditable action
type EventType string

const (
	EventLinkRemoved     EventType = "moderation.link_removed"
	EventBotRemoved      EventType = "moderation.bot_removed"
	EventBannedWord      EventType = "moderation.banned_word"
	EventAutoResponded   EventType = "automation.auto_responded"
	EventCommandDenied   EventType = "command.denied"
	EventCommandLimited  EventType = "command.rate_limited"
	EventDispatchSuccess EventType = "dispatch.succeeded"
	EventDispatchFailure EventType = "dispatch.failed"
	EventConnection      EventType = "connection.state_changed"
)

// Event is a single audit record
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	ChatID     string            `json:"chat_id,omitempty"`
	SenderID   string            `json:"sender_id,omitempty"`
	Command    string            `json:"command,omitempty"`
	Detail     string            `json:"detail,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewEvent creates an event with a fresh id and timestamp
func NewEvent(eventType EventType, chatID, senderID string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ChatID:     chatID,
		SenderID:   senderID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher publishes audit events. Publishing is fire-and-forget;
// implementations log their own failures.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher discards every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, Event) {}
