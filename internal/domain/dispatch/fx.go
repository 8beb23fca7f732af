package dispatch

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/repository/http_clients/executor"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/repository/media"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/usecase/business"
	settingsdeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/s3"
)

// Module provides the command dispatcher for fx DI
var Module = fx.Module("dispatch",
	fx.Provide(
		fx.Annotate(executor.NewClient, fx.As(new(deps.Executor))),
		NewMediaFetcherFx,
		NewDispatcherFx,
	),
)

// NewMediaFetcherFx creates the media fetcher. A nil S3 client disables
// s3:// references.
func NewMediaFetcherFx(cfg *config.ExecutorConfig, objects *s3.Client, logger zerolog.Logger) deps.MediaFetcher {
	var store deps.ObjectStore
	if objects != nil {
		store = objects
	}
	return media.NewFetcher(cfg.MediaTimeout, store, logger)
}

// DispatcherParams groups dispatcher dependencies
type DispatcherParams struct {
	fx.In

	Bot       *config.BotConfig
	Chat      domain.ChatClient
	Directory domain.ChatDirectory
	Executor  deps.Executor
	Media     deps.MediaFetcher
	Settings  settingsdeps.Store
	Audit     audit.Publisher
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// NewDispatcherFx creates the dispatcher for fx DI
func NewDispatcherFx(p DispatcherParams) deps.Dispatcher {
	return business.NewDispatcher(business.Params{
		Chat:       p.Chat,
		Directory:  p.Directory,
		Executor:   p.Executor,
		Media:      p.Media,
		Activity:   p.Settings,
		Privileges: domain.Privileges{Owner: p.Bot.Owner, Mods: p.Bot.Mods},
		Audit:      p.Audit,
		Metrics:    p.Metrics,
	}, p.Logger)
}
