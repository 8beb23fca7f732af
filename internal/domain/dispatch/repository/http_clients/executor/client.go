package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/dto"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/entities"
	dispatcherrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/errors"
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

const maxBodySize = 16 << 20

// Client is the remote executor HTTP client
type Client struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ deps.Executor = (*Client)(nil)

// NewClient creates an executor client
func NewClient(cfg *config.ExecutorConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := &Client{
		endpoint:   cfg.URL + "/execute",
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "executor_client").Logger(),
	}

	client.logger.Info().
		Str("endpoint", client.endpoint).
		Dur("timeout", timeout).
		Bool("authenticated", cfg.APIKey != "").
		Msg("Executor client initialized")

	return client
}

// Execute calls POST {executor}/execute. Failures come back as typed errors
// whose message is fit for the end user.
func (c *Client) Execute(ctx context.Context, requestID string, req dto.ExecuteRequest) (*entities.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if req.Args == nil {
		req.Args = []string{}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Msg("Executor returned an error status")
		return nil, pkgerrors.NewRemoteApplicationError(remoteMessage(body))
	}

	var result entities.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", dispatcherrors.ErrInvalidResponse, err)
	}

	return &result, nil
}

func remoteMessage(body []byte) string {
	var e dto.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return dispatcherrors.DefaultRemoteError
}

// classify maps a transport failure to timeout, refused or its own text
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return dispatcherrors.ErrExecutorTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return dispatcherrors.ErrExecutorTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return dispatcherrors.ErrExecutorRefused
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return pkgerrors.NewTransientNetworkError(urlErr.Err.Error())
	}
	return pkgerrors.NewTransientNetworkError(err.Error())
}
