package deps

import (
	"context"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
	sessionentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/entities"
)

// Emitter delivers lifecycle signals to the connection manager
type Emitter func(entities.Event)

// Client is the chat-network client driven by the connection manager.
// Run blocks until ctx is cancelled or the connection ends; the returned
// error should be an *entities.DisconnectError.
type Client interface {
	Run(ctx context.Context, sessionID string, emit Emitter) error
	SetOnline(ctx context.Context) error
}

// SessionProvider is the subset of the session provider used here
type SessionProvider interface {
	Fetch(ctx context.Context, sessionID string) (*sessionentities.Session, error)
	PersistLocally(ctx context.Context, session *sessionentities.Session) error
	Push(ctx context.Context, sessionID string, credential []byte) error
	DeleteLocal(ctx context.Context, sessionID string)
}

// ConnectionManager is the public surface of the manager
type ConnectionManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() entities.Status
	CurrentQR() (string, error)
	Fatal() <-chan error
}
