package s3

import (
	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module provides the S3 client for fx DI
var Module = fx.Module("s3",
	fx.Provide(NewClientFx),
)

// NewClientFx creates the S3 client. It returns nil when S3_ENDPOINT is empty,
// which disables s3:// media references.
func NewClientFx(cfg *config.S3Config, logger zerolog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		logger.Info().Msg("S3_ENDPOINT not set, s3 media references disabled")
		return nil, nil
	}

	return NewClient(&Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
	}, logger)
}
