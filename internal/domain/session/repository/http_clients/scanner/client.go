package scanner

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/dto"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/entities"
	sessionerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/errors"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
)

const maxBodySize = 8 << 20

// Client is the scanner HTTP client
type Client struct {
	baseURL         string
	httpClient      *http.Client
	fetchTimeout    time.Duration
	validateTimeout time.Duration
	pushTimeout     time.Duration
	metrics         *metrics.Metrics
	logger          zerolog.Logger
}

var _ deps.ScannerClient = (*Client)(nil)

// NewClient creates a scanner client. Each call carries its own deadline.
func NewClient(cfg *config.ScannerConfig, m *metrics.Metrics, logger zerolog.Logger) *Client {
	client := &Client{
		baseURL:         cfg.URL,
		httpClient:      &http.Client{},
		fetchTimeout:    cfg.FetchTimeout,
		validateTimeout: cfg.ValidateTimeout,
		pushTimeout:     cfg.PushTimeout,
		metrics:         m,
		logger:          logger.With().Str("component", "scanner_client").Logger(),
	}

	client.logger.Info().
		Str("base_url", cfg.URL).
		Msg("Scanner client initialized")

	return client
}

// GetSession calls GET {scanner}/session/{id}
func (c *Client) GetSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/session/%s", c.baseURL, url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("fetch", "unreachable")
		return nil, fmt.Errorf("%w: %v", sessionerrors.ErrScannerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.record("fetch", "not_found")
		return nil, sessionerrors.ErrSessionNotFound
	}

	if resp.StatusCode != http.StatusOK {
		c.record("fetch", "bad_status")
		return nil, fmt.Errorf("%w: unexpected status %d", sessionerrors.ErrScannerUnreachable, resp.StatusCode)
	}

	var body dto.SessionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&body); err != nil {
		c.record("fetch", "decode_error")
		return nil, fmt.Errorf("%w: decode response: %v", sessionerrors.ErrScannerUnreachable, err)
	}

	if body.Session == nil || (body.Success != nil && !*body.Success) {
		c.record("fetch", "not_found")
		return nil, sessionerrors.ErrSessionNotFound
	}

	credential, err := decodeCredential(body.Session.Data, body.Session.Encoding)
	if err != nil {
		c.record("fetch", "decode_error")
		return nil, fmt.Errorf("%w: %v", sessionerrors.ErrSessionInactive, err)
	}

	session := &entities.Session{
		ID:             sessionID,
		Status:         entities.Status(body.Session.Status),
		PhoneNumber:    body.Session.PhoneNumber,
		CredentialBlob: credential,
	}
	if body.Session.ExpiresAt != nil {
		session.ExpiresAt = *body.Session.ExpiresAt
	}

	c.record("fetch", "ok")
	return session, nil
}

// ValidateSession calls GET {scanner}/session/validate/{id}
func (c *Client) ValidateSession(ctx context.Context, sessionID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.validateTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/session/validate/%s", c.baseURL, url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("validate", "unreachable")
		return false, fmt.Errorf("%w: %v", sessionerrors.ErrScannerUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.record("validate", "not_found")
		return false, nil
	}

	if resp.StatusCode != http.StatusOK {
		c.record("validate", "bad_status")
		return false, fmt.Errorf("%w: unexpected status %d", sessionerrors.ErrScannerUnreachable, resp.StatusCode)
	}

	var body dto.ValidateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&body); err != nil {
		c.record("validate", "decode_error")
		return false, fmt.Errorf("%w: decode response: %v", sessionerrors.ErrScannerUnreachable, err)
	}

	c.record("validate", "ok")
	return body.Valid, nil
}

// PutSession calls PUT {scanner}/session/{id} with the fresh credential
func (c *Client) PutSession(ctx context.Context, sessionID string, credential []byte) error {
	ctx, cancel := context.WithTimeout(ctx, c.pushTimeout)
	defer cancel()

	data, encoding := encodeCredential(credential)
	payload, err := json.Marshal(dto.PushRequest{Data: data, Encoding: encoding})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/session/%s", c.baseURL, url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("push", "unreachable")
		return fmt.Errorf("%w: %v", sessionerrors.ErrScannerUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.record("push", "ok")
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.record("push", "rejected")
		return fmt.Errorf("%w: %s", sessionerrors.ErrPushRejected, readError(resp.Body, resp.StatusCode))
	default:
		c.record("push", "bad_status")
		return fmt.Errorf("%w: unexpected status %d", sessionerrors.ErrScannerUnreachable, resp.StatusCode)
	}
}

func (c *Client) record(operation, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordScannerRequest(operation, outcome)
	}
}

// decodeCredential turns the scanner's data field into raw credential bytes.
// A JSON string is base64 only when encoding says so, otherwise it is the
// credential text. Any other JSON value is the credential itself.
func decodeCredential(raw json.RawMessage, encoding string) ([]byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] != '"' {
		return append([]byte(nil), raw...), nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("decode credential string: %w", err)
	}

	switch encoding {
	case "":
		return []byte(text), nil
	case dto.EncodingBase64:
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("decode base64 credential: %w", err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("unsupported credential encoding %q", encoding)
	}
}

// encodeCredential is the inverse of decodeCredential
func encodeCredential(credential []byte) (json.RawMessage, string) {
	trimmed := bytes.TrimSpace(credential)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed) {
		return json.RawMessage(trimmed), ""
	}

	encoded, _ := json.Marshal(base64.StdEncoding.EncodeToString(credential))
	return encoded, dto.EncodingBase64
}

func readError(body io.Reader, status int) string {
	var e dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxBodySize)).Decode(&e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return fmt.Sprintf("status %d", status)
}
