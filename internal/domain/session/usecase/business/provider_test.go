package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/entities"
	sessionerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/errors"
)

type mockScanner struct {
	getFunc      func(ctx context.Context, id string) (*entities.Session, error)
	validateFunc func(ctx context.Context, id string) (bool, error)
	putFunc      func(ctx context.Context, id string, credential []byte) error
}

func (m *mockScanner) GetSession(ctx context.Context, id string) (*entities.Session, error) {
	return m.getFunc(ctx, id)
}

func (m *mockScanner) ValidateSession(ctx context.Context, id string) (bool, error) {
	return m.validateFunc(ctx, id)
}

func (m *mockScanner) PutSession(ctx context.Context, id string, credential []byte) error {
	return m.putFunc(ctx, id, credential)
}

type mockStore struct {
	data      map[string][]byte
	storeErr  error
	deleteErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Load(_ context.Context, id string) ([]byte, error) {
	v, ok := m.data[id]
	if !ok {
		return nil, sessionerrors.ErrNoLocalCredential
	}
	return v, nil
}

func (m *mockStore) Store(_ context.Context, id string, credential []byte) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.data[id] = credential
	return nil
}

func (m *mockStore) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, id)
	return nil
}

func scannerReturning(s *entities.Session) *mockScanner {
	return &mockScanner{
		getFunc: func(context.Context, string) (*entities.Session, error) { return s, nil },
	}
}

func TestProvider_Fetch_ActiveFutureExpiry(t *testing.T) {
	session := &entities.Session{
		ID:             "s1",
		Status:         entities.StatusActive,
		ExpiresAt:      time.Now().Add(time.Hour),
		CredentialBlob: []byte(`{"Version":1}`),
	}
	p := NewProvider(scannerReturning(session), newMockStore(), zerolog.Nop())

	got, err := p.Fetch(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestProvider_Fetch_ActivePastExpiry(t *testing.T) {
	session := &entities.Session{
		ID:        "s1",
		Status:    entities.StatusActive,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	p := NewProvider(scannerReturning(session), newMockStore(), zerolog.Nop())

	got, err := p.Fetch(context.Background(), "s1")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, sessionerrors.ErrSessionExpired)
}

func TestProvider_Fetch_NotActive(t *testing.T) {
	for _, status := range []entities.Status{entities.StatusPending, entities.StatusInvalid} {
		t.Run(string(status), func(t *testing.T) {
			session := &entities.Session{ID: "s1", Status: status, ExpiresAt: time.Now().Add(time.Hour)}
			p := NewProvider(scannerReturning(session), newMockStore(), zerolog.Nop())

			_, err := p.Fetch(context.Background(), "s1")
			assert.ErrorIs(t, err, sessionerrors.ErrSessionInactive)
		})
	}

	t.Run("expired status", func(t *testing.T) {
		session := &entities.Session{ID: "s1", Status: entities.StatusExpired}
		p := NewProvider(scannerReturning(session), newMockStore(), zerolog.Nop())

		_, err := p.Fetch(context.Background(), "s1")
		assert.ErrorIs(t, err, sessionerrors.ErrSessionExpired)
	})
}

func TestProvider_Fetch_ZeroExpiryNeverExpires(t *testing.T) {
	session := &entities.Session{ID: "s1", Status: entities.StatusActive}
	p := NewProvider(scannerReturning(session), newMockStore(), zerolog.Nop())

	_, err := p.Fetch(context.Background(), "s1")
	assert.NoError(t, err)
}

func TestProvider_Fetch_PropagatesScannerError(t *testing.T) {
	scanner := &mockScanner{
		getFunc: func(context.Context, string) (*entities.Session, error) {
			return nil, sessionerrors.ErrScannerUnreachable
		},
	}
	p := NewProvider(scanner, newMockStore(), zerolog.Nop())

	_, err := p.Fetch(context.Background(), "s1")
	assert.ErrorIs(t, err, sessionerrors.ErrScannerUnreachable)

	_, err = p.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, sessionerrors.ErrInvalidSessionID)
}

func TestProvider_PersistLocally(t *testing.T) {
	store := newMockStore()
	p := NewProvider(&mockScanner{}, store, zerolog.Nop())

	err := p.PersistLocally(context.Background(), &entities.Session{ID: "s1", CredentialBlob: []byte("blob")})
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), store.data["s1"])

	err = p.PersistLocally(context.Background(), &entities.Session{ID: "s1"})
	assert.ErrorIs(t, err, sessionerrors.ErrEmptyCredential)

	store.storeErr = errors.New("disk full")
	err = p.PersistLocally(context.Background(), &entities.Session{ID: "s1", CredentialBlob: []byte("blob")})
	assert.ErrorIs(t, err, sessionerrors.ErrLocalStore)
}

func TestProvider_Push(t *testing.T) {
	var pushed []byte
	scanner := &mockScanner{
		putFunc: func(_ context.Context, id string, credential []byte) error {
			pushed = credential
			return nil
		},
	}
	p := NewProvider(scanner, newMockStore(), zerolog.Nop())

	require.NoError(t, p.Push(context.Background(), "s1", []byte("fresh")))
	assert.Equal(t, []byte("fresh"), pushed)

	assert.ErrorIs(t, p.Push(context.Background(), "s1", nil), sessionerrors.ErrEmptyCredential)
}

func TestProvider_DeleteLocal_NeverFails(t *testing.T) {
	store := newMockStore()
	store.data["s1"] = []byte("blob")
	p := NewProvider(&mockScanner{}, store, zerolog.Nop())

	p.DeleteLocal(context.Background(), "s1")
	assert.NotContains(t, store.data, "s1")

	store.deleteErr = errors.New("permission denied")
	assert.NotPanics(t, func() { p.DeleteLocal(context.Background(), "s1") })
}
