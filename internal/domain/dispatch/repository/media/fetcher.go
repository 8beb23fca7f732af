package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/entities"
	dispatcherrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/errors"
)

const (
	maxMediaSize     = 50 << 20
	defaultMediaType = "image/jpeg"
	defaultFilename  = "media"
)

// Fetcher implements deps.MediaFetcher for http(s) URLs, s3:// references
// and inline base64 payloads
type Fetcher struct {
	httpClient *http.Client
	timeout    time.Duration
	objects    deps.ObjectStore
	logger     zerolog.Logger
}

var _ deps.MediaFetcher = (*Fetcher)(nil)

// NewFetcher creates a media fetcher. objects may be nil, which disables
// s3:// references.
func NewFetcher(timeout time.Duration, objects deps.ObjectStore, logger zerolog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{},
		timeout:    timeout,
		objects:    objects,
		logger:     logger.With().Str("component", "media_fetcher").Logger(),
	}
}

// Fetch resolves the attachment described by result
func (f *Fetcher) Fetch(ctx context.Context, result *entities.Result) (*domain.Media, error) {
	var (
		data []byte
		err  error
	)

	switch source := result.MediaSource(); {
	case strings.HasPrefix(source, "s3://"):
		data, err = f.fromObjectStore(ctx, source)
	case source != "":
		data, err = f.fromURL(ctx, source)
	case result.MediaBase64 != "":
		data, err = decodeBase64(result.MediaBase64)
	default:
		err = dispatcherrors.ErrNoMediaSource
	}
	if err != nil {
		return nil, err
	}

	media := &domain.Media{
		Data:     data,
		MimeType: result.MediaType,
		Filename: result.Filename,
		Caption:  result.MediaCaption(),
	}
	if media.MimeType == "" {
		media.MimeType = defaultMediaType
	}
	if media.Filename == "" {
		media.Filename = defaultFilename
	}

	return media, nil
}

func (f *Fetcher) fromURL(ctx context.Context, source string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatcherrors.ErrMediaDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", dispatcherrors.ErrMediaDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatcherrors.ErrMediaDownload, err)
	}
	if len(data) > maxMediaSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", dispatcherrors.ErrMediaDownload, maxMediaSize)
	}

	f.logger.Debug().Str("url", source).Int("size", len(data)).Msg("downloaded media")
	return data, nil
}

func (f *Fetcher) fromObjectStore(ctx context.Context, source string) ([]byte, error) {
	if f.objects == nil {
		return nil, dispatcherrors.ErrObjectStoreOff
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(source, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: %q", dispatcherrors.ErrInvalidMediaRef, source)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	data, _, err := f.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dispatcherrors.ErrMediaDownload, err)
	}
	return data, nil
}

// decodeBase64 accepts plain base64 or a data URL
func decodeBase64(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		if _, rest, ok := strings.Cut(payload, ","); ok {
			payload = rest
		}
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 media: %w", err)
	}
	return data, nil
}
