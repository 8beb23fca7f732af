package pipeline

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	dispatchdeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/repository/media"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/pipeline/menu"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/pipeline/usecase/business"
	ratelimitdeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit/deps"
	settingsdeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/telegram"
)

// Module provides the message pipeline and attaches it to the chat client
var Module = fx.Module("pipeline",
	fx.Provide(
		menu.NewCatalog,
		NewPipelineFx,
	),
	fx.Invoke(AttachHandler),
)

// PipelineParams groups pipeline dependencies
type PipelineParams struct {
	fx.In

	Bot        *config.BotConfig
	RateLimit  *config.RateLimitConfig
	Menu       *config.MenuConfig
	Chat       domain.ChatClient
	Settings   settingsdeps.Store
	Limiter    ratelimitdeps.Limiter
	Dispatcher dispatchdeps.Dispatcher
	Catalog    *menu.Catalog
	Audit      audit.Publisher
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// NewPipelineFx creates the pipeline for fx DI. Menu banners use their own
// fetcher so the image timeout stays independent of command media.
func NewPipelineFx(p PipelineParams) domain.MessageHandler {
	return business.NewPipeline(business.Config{
		Prefix:           p.Bot.Prefix,
		SelfMode:         p.Bot.SelfMode,
		BotName:          p.Bot.Name,
		Developer:        p.Bot.Developer,
		RateLimitEnabled: p.RateLimit.Enabled,
		RateLimitMessage: p.RateLimit.Message,
		Privileges:       domain.Privileges{Owner: p.Bot.Owner, Mods: p.Bot.Mods},
		MenuImages: map[string]string{
			menu.Morning.Name:   p.Menu.MorningImage,
			menu.Afternoon.Name: p.Menu.AfternoonImage,
			menu.Evening.Name:   p.Menu.EveningImage,
		},
	}, business.Params{
		Chat:       p.Chat,
		Settings:   p.Settings,
		Limiter:    p.Limiter,
		Dispatcher: p.Dispatcher,
		Catalog:    p.Catalog,
		Images:     media.NewFetcher(p.Menu.ImageTimeout, nil, p.Logger),
		Audit:      p.Audit,
		Metrics:    p.Metrics,
	}, p.Logger)
}

// AttachHandler routes inbound messages from the client into the pipeline
func AttachHandler(client *telegram.Client, handler domain.MessageHandler, logger zerolog.Logger) {
	client.SetHandler(handler)
	logger.Info().Msg("Message pipeline attached")
}
