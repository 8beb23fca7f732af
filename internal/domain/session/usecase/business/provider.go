package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/entities"
	sessionerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/errors"
)

// Provider implements deps.Provider on top of the scanner and the local store
type Provider struct {
	scanner deps.ScannerClient
	store   deps.LocalStore
	now     func() time.Time
	logger  zerolog.Logger
}

var _ deps.Provider = (*Provider)(nil)

// NewProvider creates a new session provider
func NewProvider(scanner deps.ScannerClient, store deps.LocalStore, logger zerolog.Logger) *Provider {
	return &Provider{
		scanner: scanner,
		store:   store,
		now:     time.Now,
		logger:  logger.With().Str("component", "session_provider").Logger(),
	}
}

// Fetch returns the scanner's session only when it is active and unexpired
func (p *Provider) Fetch(ctx context.Context, sessionID string) (*entities.Session, error) {
	if sessionID == "" {
		return nil, sessionerrors.ErrInvalidSessionID
	}

	session, err := p.scanner.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Status == entities.StatusExpired || session.Expired(p.now()) {
		p.logger.Warn().
			Str("session_id", sessionID).
			Time("expires_at", session.ExpiresAt).
			Msg("Session expired")
		return nil, sessionerrors.ErrSessionExpired
	}

	if !session.Active() {
		p.logger.Warn().
			Str("session_id", sessionID).
			Str("status", string(session.Status)).
			Msg("Session is not active")
		return nil, fmt.Errorf("%w: status %q", sessionerrors.ErrSessionInactive, session.Status)
	}

	p.logger.Info().
		Str("session_id", sessionID).
		Time("expires_at", session.ExpiresAt).
		Msg("Session found")

	return session, nil
}

// Validate asks the scanner whether the session is still usable
func (p *Provider) Validate(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, sessionerrors.ErrInvalidSessionID
	}
	return p.scanner.ValidateSession(ctx, sessionID)
}

// PersistLocally writes the credential bundle where the connection client reads it
func (p *Provider) PersistLocally(ctx context.Context, session *entities.Session) error {
	if session == nil || len(session.CredentialBlob) == 0 {
		return sessionerrors.ErrEmptyCredential
	}

	if err := p.store.Store(ctx, session.ID, session.CredentialBlob); err != nil {
		return fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, err)
	}

	p.logger.Info().
		Str("session_id", session.ID).
		Int("size", len(session.CredentialBlob)).
		Msg("Session restored to local store")

	return nil
}

// Push sends a fresh credential back to the scanner
func (p *Provider) Push(ctx context.Context, sessionID string, credential []byte) error {
	if len(credential) == 0 {
		return sessionerrors.ErrEmptyCredential
	}

	if err := p.scanner.PutSession(ctx, sessionID, credential); err != nil {
		return err
	}

	p.logger.Info().Str("session_id", sessionID).Msg("Credentials pushed to scanner")
	return nil
}

// DeleteLocal removes the local credential. Failures are logged only.
func (p *Provider) DeleteLocal(ctx context.Context, sessionID string) {
	err := p.store.Delete(ctx, sessionID)
	switch {
	case err == nil:
		p.logger.Info().Str("session_id", sessionID).Msg("Local session deleted")
	case errors.Is(err, sessionerrors.ErrNoLocalCredential):
		p.logger.Debug().Str("session_id", sessionID).Msg("No local session to delete")
	default:
		p.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to delete local session")
	}
}
