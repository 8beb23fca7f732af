package errors

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestMapper_MapErrorToHTTP(t *testing.T) {
	m := NewMapper(zerolog.Nop())

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, fasthttp.StatusOK, ""},
		{"validation", NewValidationError("bad flag"), fasthttp.StatusBadRequest, "bad flag"},
		{"not found", NewNotFoundErrorf("identity %s", "user:1"), fasthttp.StatusNotFound, "identity user:1"},
		{"credential invalid", NewCredentialInvalidError("expired"), fasthttp.StatusGone, "expired"},
		{"credential rejected", NewCredentialRejectedError("revoked"), fasthttp.StatusUnauthorized, "revoked"},
		{"remote", NewRemoteApplicationError("boom"), fasthttp.StatusBadGateway, "boom"},
		{"transient", NewTransientNetworkError("timeout"), fasthttp.StatusGatewayTimeout, "timeout"},
		{"io", NewLocalIOError("disk"), fasthttp.StatusInternalServerError, "disk"},
		{"wrapped", fmt.Errorf("load: %w", NewNotFoundError("missing")), fasthttp.StatusNotFound, "missing"},
		{"unknown", fmt.Errorf("plain"), fasthttp.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := m.MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
