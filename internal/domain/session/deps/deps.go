package deps

import (
	"context"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/entities"
)

// ScannerClient talks to the provisioning service over HTTP
type ScannerClient interface {
	GetSession(ctx context.Context, sessionID string) (*entities.Session, error)
	ValidateSession(ctx context.Context, sessionID string) (bool, error)
	PutSession(ctx context.Context, sessionID string, credential []byte) error
}

// LocalStore is the credential store read by the chat-network client
type LocalStore interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Store(ctx context.Context, sessionID string, credential []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// Provider acquires, validates and persists credential bundles
type Provider interface {
	Fetch(ctx context.Context, sessionID string) (*entities.Session, error)
	Validate(ctx context.Context, sessionID string) (bool, error)
	PersistLocally(ctx context.Context, session *entities.Session) error
	Push(ctx context.Context, sessionID string, credential []byte) error
	DeleteLocal(ctx context.Context, sessionID string)
}
