package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	settingserrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/errors"
)

// Store implements deps.Store over a repository with a write-through cache.
// Operations on one identity are serialized; different identities never
// wait on each other's repository calls.
type Store struct {
	repo     deps.Repository
	defaults entities.Settings
	now      func() time.Time
	logger   zerolog.Logger

	cacheMu sync.RWMutex
	cache   map[string]entities.Settings

	locksMu sync.Mutex
	locks   map[string]*identityLock
}

type identityLock struct {
	mu   sync.Mutex
	refs int
}

var _ deps.Store = (*Store)(nil)

// NewStore creates a settings store. defaults seed every identity seen for
// the first time.
func NewStore(repo deps.Repository, defaults entities.Settings, logger zerolog.Logger) *Store {
	return &Store{
		repo:     repo,
		defaults: defaults.Clone(),
		now:      time.Now,
		logger:   logger.With().Str("component", "settings_store").Logger(),
		cache:    make(map[string]entities.Settings),
		locks:    make(map[string]*identityLock),
	}
}

// lock serializes work on identity and returns the matching unlock
func (s *Store) lock(identity string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[identity]
	if !ok {
		l = &identityLock{}
		s.locks[identity] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, identity)
		}
		s.locksMu.Unlock()
	}
}

func (s *Store) cached(identity string) (entities.Settings, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	settings, ok := s.cache[identity]
	return settings, ok
}

func (s *Store) remember(identity string, settings entities.Settings) {
	s.cacheMu.Lock()
	s.cache[identity] = settings
	s.cacheMu.Unlock()
}

// Get returns the settings of identity, creating and persisting defaults on
// first access. When the repository fails the defaults are returned along
// with the error.
func (s *Store) Get(ctx context.Context, identity string) (entities.Settings, error) {
	if _, _, err := domain.ParseIdentity(identity); err != nil {
		return s.defaults.Clone(), err
	}

	if cached, ok := s.cached(identity); ok {
		return cached.Clone(), nil
	}

	unlock := s.lock(identity)
	defer unlock()

	settings, err := s.load(ctx, identity)
	return settings.Clone(), err
}

func (s *Store) load(ctx context.Context, identity string) (entities.Settings, error) {
	if cached, ok := s.cached(identity); ok {
		return cached, nil
	}

	stored, err := s.repo.Load(ctx, identity)
	switch {
	case err == nil:
		settings := stored.Clone()
		s.remember(identity, settings)
		return settings, nil
	case errors.Is(err, settingserrors.ErrSettingsNotFound):
		settings := s.defaults.Clone()
		if err := s.repo.Save(ctx, identity, settings); err != nil {
			s.logger.Error().Err(err).Str("identity", identity).Msg("Failed to persist default settings")
			return settings, fmt.Errorf("%w: %v", settingserrors.ErrStoreFailure, err)
		}
		s.logger.Debug().Str("identity", identity).Msg("Default settings created")
		s.remember(identity, settings)
		return settings, nil
	default:
		s.logger.Error().Err(err).Str("identity", identity).Msg("Failed to load settings")
		return s.defaults.Clone(), fmt.Errorf("%w: %v", settingserrors.ErrStoreFailure, err)
	}
}

// Set replaces the settings of identity
func (s *Store) Set(ctx context.Context, identity string, settings entities.Settings) error {
	if _, _, err := domain.ParseIdentity(identity); err != nil {
		return err
	}

	unlock := s.lock(identity)
	defer unlock()

	return s.save(ctx, identity, settings.Clone())
}

func (s *Store) save(ctx context.Context, identity string, settings entities.Settings) error {
	if err := s.repo.Save(ctx, identity, settings); err != nil {
		s.logger.Error().Err(err).Str("identity", identity).Msg("Failed to save settings")
		return fmt.Errorf("%w: %v", settingserrors.ErrStoreFailure, err)
	}
	s.remember(identity, settings)
	return nil
}

func (s *Store) update(ctx context.Context, identity string, fn func(*entities.Settings) error) (entities.Settings, error) {
	if _, _, err := domain.ParseIdentity(identity); err != nil {
		return entities.Settings{}, err
	}

	unlock := s.lock(identity)
	defer unlock()

	current, err := s.load(ctx, identity)
	if err != nil {
		return entities.Settings{}, err
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		return entities.Settings{}, err
	}

	if err := s.save(ctx, identity, next); err != nil {
		return entities.Settings{}, err
	}
	return next.Clone(), nil
}

// Toggle sets one automation flag
func (s *Store) Toggle(ctx context.Context, identity, flag string, value bool) (entities.Settings, error) {
	f, ok := entities.ParseFlag(flag)
	if !ok {
		return entities.Settings{}, fmt.Errorf("%w: %q", settingserrors.ErrUnknownFlag, flag)
	}

	settings, err := s.update(ctx, identity, func(st *entities.Settings) error {
		st.Set(f, value)
		return nil
	})
	if err == nil {
		s.logger.Info().Str("identity", identity).Str("flag", string(f)).Bool("value", value).Msg("Setting toggled")
	}
	return settings, err
}

// AddTrigger maps a lowercased trigger to a response
func (s *Store) AddTrigger(ctx context.Context, identity, trigger, response string) (entities.Settings, error) {
	trigger = normalize(trigger)
	if trigger == "" || strings.TrimSpace(response) == "" {
		return entities.Settings{}, settingserrors.ErrEmptyTrigger
	}

	return s.update(ctx, identity, func(st *entities.Settings) error {
		st.AutoRespondTriggers[trigger] = response
		return nil
	})
}

// RemoveTrigger deletes a trigger. Removing an absent trigger is a no-op.
func (s *Store) RemoveTrigger(ctx context.Context, identity, trigger string) (entities.Settings, error) {
	trigger = normalize(trigger)
	return s.update(ctx, identity, func(st *entities.Settings) error {
		delete(st.AutoRespondTriggers, trigger)
		return nil
	})
}

// AddBannedWord bans a lowercased word once
func (s *Store) AddBannedWord(ctx context.Context, identity, word string) (entities.Settings, error) {
	word = normalize(word)
	if word == "" {
		return entities.Settings{}, settingserrors.ErrEmptyWord
	}

	return s.update(ctx, identity, func(st *entities.Settings) error {
		if !st.HasBannedWord(word) {
			st.BannedWords = append(st.BannedWords, word)
		}
		return nil
	})
}

// RemoveBannedWord unbans a word. Removing an absent word is a no-op.
func (s *Store) RemoveBannedWord(ctx context.Context, identity, word string) (entities.Settings, error) {
	word = normalize(word)
	return s.update(ctx, identity, func(st *entities.Settings) error {
		kept := st.BannedWords[:0]
		for _, w := range st.BannedWords {
			if w != word {
				kept = append(kept, w)
			}
		}
		st.BannedWords = kept
		return nil
	})
}

// RecordActivity counts a dispatched command for a group
func (s *Store) RecordActivity(ctx context.Context, identity string) error {
	if !domain.IsGroupIdentity(identity) {
		return settingserrors.ErrNotGroup
	}

	unlock := s.lock(identity)
	defer unlock()

	if _, err := s.load(ctx, identity); err != nil {
		return err
	}

	if err := s.repo.RecordActivity(ctx, identity, s.now()); err != nil {
		return fmt.Errorf("%w: %v", settingserrors.ErrStoreFailure, err)
	}
	return nil
}

// Activity returns command usage of a group
func (s *Store) Activity(ctx context.Context, identity string) (entities.Activity, error) {
	if !domain.IsGroupIdentity(identity) {
		return entities.Activity{}, settingserrors.ErrNotGroup
	}

	unlock := s.lock(identity)
	defer unlock()

	if _, err := s.load(ctx, identity); err != nil {
		return entities.Activity{}, err
	}

	activity, err := s.repo.Activity(ctx, identity)
	if err != nil {
		return entities.Activity{}, err
	}
	return *activity, nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
