package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gotd/td/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	sessiondeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/deps"
	sessionerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/errors"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// CredentialStore is the local credential store shared by the session
// provider and the chat-network client
type CredentialStore interface {
	sessiondeps.LocalStore

	// Storage returns the view read and written by the chat-network client
	Storage(sessionID string) session.Storage
}

// FileCredentialStore keeps one JSON file per session
type FileCredentialStore struct {
	dir string
}

// NewFileCredentialStore creates a file-based credential store
func NewFileCredentialStore(dir string) (*FileCredentialStore, error) {
	if dir == "" {
		dir = "./sessions"
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileCredentialStore{dir: dir}, nil
}

func (s *FileCredentialStore) path(sessionID string) (string, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return "", sessionerrors.ErrInvalidSessionID
	}
	return filepath.Join(s.dir, sessionID+".json"), nil
}

// Load reads the credential bundle
func (s *FileCredentialStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	path, err := s.path(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return nil, sessionerrors.ErrNoLocalCredential
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, err)
	}

	if !json.Valid(data) {
		return nil, sessionerrors.ErrCorruptCredential
	}
	return data, nil
}

// Store writes the credential bundle atomically
func (s *FileCredentialStore) Store(_ context.Context, sessionID string, credential []byte) error {
	path, err := s.path(sessionID)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, credential, 0600); err != nil {
		return fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, err)
	}
	return nil
}

// Delete removes the credential bundle. A missing file is not an error.
func (s *FileCredentialStore) Delete(_ context.Context, sessionID string) error {
	path, err := s.path(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, err)
	}
	return nil
}

// Storage implements CredentialStore
func (s *FileCredentialStore) Storage(sessionID string) session.Storage {
	return &storageView{store: s, sessionID: sessionID}
}

// PostgresCredentialStore keeps credential bundles in the sessions table
type PostgresCredentialStore struct {
	db *gorm.DB
}

// NewPostgresCredentialStore creates a PostgreSQL-based credential store
func NewPostgresCredentialStore(db *gorm.DB) (*PostgresCredentialStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	return &PostgresCredentialStore{db: db}, nil
}

// Load reads the credential bundle
func (s *PostgresCredentialStore) Load(ctx context.Context, sessionID string) ([]byte, error) {
	var model SessionModel
	result := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&model)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, sessionerrors.ErrNoLocalCredential
	}
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, result.Error)
	}
	if len(model.Data) == 0 {
		return nil, sessionerrors.ErrNoLocalCredential
	}
	if !json.Valid(model.Data) {
		return nil, sessionerrors.ErrCorruptCredential
	}

	return model.Data, nil
}

// Store upserts the credential bundle
func (s *PostgresCredentialStore) Store(ctx context.Context, sessionID string, credential []byte) error {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&SessionModel{SessionID: sessionID, Data: credential})

	if result.Error != nil {
		return fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, result.Error)
	}
	return nil
}

// Delete removes the credential bundle
func (s *PostgresCredentialStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&SessionModel{}).Error; err != nil {
		return fmt.Errorf("%w: %v", sessionerrors.ErrLocalStore, err)
	}
	return nil
}

// Storage implements CredentialStore
func (s *PostgresCredentialStore) Storage(sessionID string) session.Storage {
	return &storageView{store: s, sessionID: sessionID}
}

// storageView adapts a CredentialStore entry to session.Storage
type storageView struct {
	store     sessiondeps.LocalStore
	sessionID string
}

// LoadSession implements session.Storage
func (v *storageView) LoadSession(ctx context.Context) ([]byte, error) {
	data, err := v.store.Load(ctx, v.sessionID)
	if errors.Is(err, sessionerrors.ErrNoLocalCredential) {
		return nil, session.ErrNotFound
	}
	return data, err
}

// StoreSession implements session.Storage
func (v *storageView) StoreSession(ctx context.Context, data []byte) error {
	return v.store.Store(ctx, v.sessionID, data)
}

var (
	_ CredentialStore = (*FileCredentialStore)(nil)
	_ CredentialStore = (*PostgresCredentialStore)(nil)
	_ session.Storage = (*storageView)(nil)
)
