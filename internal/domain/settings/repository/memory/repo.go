package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	settingserrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/errors"
)

// Repository implements deps.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	users    map[string]entities.Settings
	groups   map[string]entities.Settings
	activity map[string]entities.Activity
}

var _ deps.Repository = (*Repository)(nil)

// NewRepository creates a new in-memory settings repository
func NewRepository() *Repository {
	return &Repository{
		users:    make(map[string]entities.Settings),
		groups:   make(map[string]entities.Settings),
		activity: make(map[string]entities.Activity),
	}
}

func (r *Repository) namespace(identity string) map[string]entities.Settings {
	if domain.IsGroupIdentity(identity) {
		return r.groups
	}
	return r.users
}

// Load retrieves settings of an identity
func (r *Repository) Load(_ context.Context, identity string) (*entities.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings, ok := r.namespace(identity)[identity]
	if !ok {
		return nil, settingserrors.ErrSettingsNotFound
	}

	clone := settings.Clone()
	return &clone, nil
}

// Save stores settings of an identity
func (r *Repository) Save(_ context.Context, identity string, settings entities.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.namespace(identity)[identity] = settings.Clone()
	return nil
}

// RecordActivity increments the command counter of a group
func (r *Repository) RecordActivity(_ context.Context, identity string, at time.Time) error {
	if !domain.IsGroupIdentity(identity) {
		return settingserrors.ErrNotGroup
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[identity]; !ok {
		return settingserrors.ErrSettingsNotFound
	}

	a := r.activity[identity]
	a.CommandCount++
	a.LastActive = &at
	r.activity[identity] = a
	return nil
}

// Activity returns command usage of a group
func (r *Repository) Activity(_ context.Context, identity string) (*entities.Activity, error) {
	if !domain.IsGroupIdentity(identity) {
		return nil, settingserrors.ErrNotGroup
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.groups[identity]; !ok {
		return nil, settingserrors.ErrSettingsNotFound
	}

	a := r.activity[identity]
	return &a, nil
}
