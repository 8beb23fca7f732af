package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/deps"
	sessiondeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/session/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
)

// Module provides the MTProto client and its credential store for fx DI.
// The connection module owns the client lifecycle.
var Module = fx.Module("telegram",
	fx.Provide(
		NewCredentialStoreFx,
		func(s CredentialStore) sessiondeps.LocalStore { return s },
		NewClientFx,
		func(c *Client) deps.Client { return c },
		func(c *Client) domain.ChatClient { return c },
		func(c *Client) domain.ChatDirectory { return c },
	),
)

// NewCredentialStoreFx picks PostgreSQL when a database is configured and
// falls back to session files otherwise
func NewCredentialStoreFx(
	telegramCfg *config.TelegramConfig,
	db *gorm.DB,
	logger zerolog.Logger,
) (CredentialStore, error) {
	if db != nil {
		logger.Info().Msg("Using PostgreSQL credential store")
		return NewPostgresCredentialStore(db)
	}

	logger.Info().Str("dir", telegramCfg.SessionDir).Msg("Using file credential store")
	return NewFileCredentialStore(telegramCfg.SessionDir)
}

// NewClientFx creates the MTProto client for fx DI. Its stop hook is
// registered before the connection manager's, so it runs after the
// connection is down and only waits for messages already being handled.
func NewClientFx(
	lc fx.Lifecycle,
	telegramCfg *config.TelegramConfig,
	store CredentialStore,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (*Client, error) {
	client, err := NewClient(Config{
		APIID:     telegramCfg.APIID,
		APIHash:   telegramCfg.APIHash,
		Password:  telegramCfg.Password,
		RateLimit: telegramCfg.RateLimit,
		RateBurst: telegramCfg.RateBurst,
	}, store, m, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Drain(ctx)
		},
	})

	return client, nil
}
