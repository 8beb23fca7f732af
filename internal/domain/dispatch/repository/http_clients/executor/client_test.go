package executor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/dto"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/entities"
	dispatcherrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/errors"
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

func newTestClient(url, key string, timeout time.Duration) *Client {
	return NewClient(&config.ExecutorConfig{URL: url, APIKey: key, Timeout: timeout}, zerolog.Nop())
}

func TestClient_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/execute", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "ping", req["function"])
		assert.Equal(t, []interface{}{}, req["args"])

		ctx := req["context"].(map[string]interface{})
		assert.Equal(t, "group:1", ctx["chatId"])

		_, _ = io.WriteString(w, `{"success":true,"message":"pong"}`)
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL, "secret", time.Second).Execute(context.Background(), "req-1", dto.ExecuteRequest{
		Function: "ping",
		Context:  entities.CommandContext{ChatID: "group:1"},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "pong", result.Message)
}

func TestClient_Execute_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":false,"error":"nope"}`)
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL, "", time.Second).Execute(context.Background(), "req", dto.ExecuteRequest{Function: "x"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "nope", result.Error)
}

func TestClient_Execute_RemoteError(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"unknown function"}`, "unknown function"},
		{"message field", `{"message":"bad args"}`, "bad args"},
		{"no reason", `oops`, dispatcherrors.DefaultRemoteError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL, "", time.Second).Execute(context.Background(), "req", dto.ExecuteRequest{Function: "x"})
			require.Error(t, err)

			var remote *pkgerrors.RemoteApplicationError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestClient_Execute_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTestClient(srv.URL, "", 20*time.Millisecond).Execute(context.Background(), "req", dto.ExecuteRequest{Function: "slow"})
	assert.ErrorIs(t, err, dispatcherrors.ErrExecutorTimeout)
}

func TestClient_Execute_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = newTestClient("http://"+addr, "", time.Second).Execute(context.Background(), "req", dto.ExecuteRequest{Function: "x"})
	assert.ErrorIs(t, err, dispatcherrors.ErrExecutorRefused)
}

func TestClient_Execute_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "", time.Second).Execute(context.Background(), "req", dto.ExecuteRequest{Function: "x"})
	assert.ErrorIs(t, err, dispatcherrors.ErrInvalidResponse)
}
