package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MaxObjectSize caps media objects read into memory
const MaxObjectSize = 50 << 20

// Config holds S3/MinIO configuration
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Client wraps a MinIO client for reading media objects
type Client struct {
	client *minio.Client
	logger zerolog.Logger
}

// NewClient creates a new S3/MinIO client
func NewClient(cfg *Config, logger zerolog.Logger) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &Client{
		client: client,
		logger: logger.With().Str("component", "s3").Logger(),
	}, nil
}

// GetObject downloads bucket/key and returns its bytes and content type
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, string, error) {
	obj, err := c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat object %s/%s: %w", bucket, key, err)
	}
	if info.Size > MaxObjectSize {
		return nil, "", fmt.Errorf("object %s/%s too large: %d bytes", bucket, key, info.Size)
	}

	data, err := io.ReadAll(io.LimitReader(obj, MaxObjectSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}

	c.logger.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int("size", len(data)).
		Msg("downloaded media object")

	return data, info.ContentType, nil
}
