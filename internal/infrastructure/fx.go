package infrastructure

import (
	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/database"
	httpfx "github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/http"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/kafka"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/logger"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/s3"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/telegram"
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
	"github.com/SAVX-BOY/dead-x-bot/pkg/httputil"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module, // Must be before telegram (telegram depends on *gorm.DB)
	metrics.Module,
	telegram.Module,
	kafka.Module,
	s3.Module,
	httpfx.Module,
	fx.Provide(
		fx.Annotate(pkgerrors.NewMapper, fx.As(new(httputil.ErrorMapper))),
	),
)
