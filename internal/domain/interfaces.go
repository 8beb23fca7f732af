package domain

import "context"

// ChatClient performs side effects on the chat network
type ChatClient interface {
	// SendText sends text to chatID, quoting replyTo when it is non-zero
	SendText(ctx context.Context, chatID, text string, replyTo int) error

	// SendMedia uploads and sends media to chatID
	SendMedia(ctx context.Context, chatID string, media Media, replyTo int) error

	// DeleteMessage deletes a message for everyone
	DeleteMessage(ctx context.Context, chatID string, messageID int) error

	// SetPresence shows a transient chat action such as typing
	SetPresence(ctx context.Context, chatID string, presence Presence) error

	// RemoveParticipant removes userID from a group chat
	RemoveParticipant(ctx context.Context, chatID, userID string) error
}

// ChatDirectory answers metadata queries about chats and participants
type ChatDirectory interface {
	// SelfIdentity returns the identity of the automated account, empty before login
	SelfIdentity() string

	IsAdmin(ctx context.Context, chatID, userID string) (bool, error)
	GetQuoted(ctx context.Context, chatID string, messageID int) (*QuotedMessage, error)
	GetContact(ctx context.Context, userID string) (*Contact, error)
	GetGroup(ctx context.Context, chatID string) (*GroupInfo, error)
}

// MessageHandler processes one inbound message
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
}

// MessageHandlerFunc adapts a function to MessageHandler
type MessageHandlerFunc func(ctx context.Context, msg Message)

// HandleMessage implements MessageHandler
func (f MessageHandlerFunc) HandleMessage(ctx context.Context, msg Message) {
	f(ctx, msg)
}
