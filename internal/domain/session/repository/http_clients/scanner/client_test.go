package scanner

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/entities"
	sessionerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/errors"
)

func newTestClient(url string) *Client {
	return NewClient(&config.ScannerConfig{
		URL:             url,
		FetchTimeout:    time.Second,
		ValidateTimeout: time.Second,
		PushTimeout:     time.Second,
	}, nil, zerolog.Nop())
}

func TestClient_GetSession(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session/abc", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"session": map[string]interface{}{
				"status":      "active",
				"expiresAt":   expires.Format(time.RFC3339),
				"phoneNumber": "15550001",
				"data":        map[string]interface{}{"Version": 1},
			},
		})
	}))
	defer srv.Close()

	session, err := newTestClient(srv.URL).GetSession(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusActive, session.Status)
	assert.True(t, expires.Equal(session.ExpiresAt))
	assert.Equal(t, "15550001", session.PhoneNumber)
	assert.JSONEq(t, `{"Version":1}`, string(session.CredentialBlob))
}

func TestClient_GetSession_Base64Data(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"session":{"status":"active","data":"aGVsbG8=","encoding":"base64"}}`)
	}))
	defer srv.Close()

	session, err := newTestClient(srv.URL).GetSession(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), session.CredentialBlob)
}

func TestClient_GetSession_TextDataLooksLikeBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"session":{"status":"active","data":"abcd"}}`)
	}))
	defer srv.Close()

	session, err := newTestClient(srv.URL).GetSession(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), session.CredentialBlob)
}

func TestClient_GetSession_BadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"session":{"status":"active","data":"not base64!","encoding":"base64"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetSession(context.Background(), "abc")
	require.ErrorIs(t, err, sessionerrors.ErrSessionInactive)
}

func TestClient_GetSession_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetSession(context.Background(), "abc")
	assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFound)
}

func TestClient_GetSession_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetSession(context.Background(), "abc")
	assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFound)
}

func TestClient_GetSession_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).GetSession(context.Background(), "abc")
	assert.ErrorIs(t, err, sessionerrors.ErrScannerUnreachable)
}

func TestClient_GetSession_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetSession(context.Background(), "abc")
	assert.ErrorIs(t, err, sessionerrors.ErrScannerUnreachable)
}

func TestClient_ValidateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session/validate/abc", r.URL.Path)
		_, _ = io.WriteString(w, `{"valid":true}`)
	}))
	defer srv.Close()

	valid, err := newTestClient(srv.URL).ValidateSession(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestClient_PutSession(t *testing.T) {
	var received map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/session/abc", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).PutSession(context.Background(), "abc", []byte(`{"Version":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Version":1}`, string(received["data"]))
	assert.NotContains(t, received, "encoding")
}

func TestClient_PutSession_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"error":"stale credentials"}`)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).PutSession(context.Background(), "abc", []byte("raw"))
	require.ErrorIs(t, err, sessionerrors.ErrPushRejected)
	assert.Contains(t, err.Error(), "stale credentials")
}

func TestCredentialCodec(t *testing.T) {
	for _, blob := range [][]byte{[]byte(`{"a":1}`), []byte("opaque\x00bytes"), []byte("abcd")} {
		decoded, err := decodeCredential(encodeCredential(blob))
		require.NoError(t, err)
		assert.Equal(t, blob, decoded)
	}
}
