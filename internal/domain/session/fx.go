package session

import (
	"go.uber.org/fx"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/repository/http_clients/scanner"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/session/usecase/business"
)

// Module provides session domain components for fx DI.
// deps.LocalStore is provided by the telegram infrastructure module.
var Module = fx.Module("session",
	fx.Provide(
		fx.Annotate(scanner.NewClient, fx.As(new(deps.ScannerClient))),
		fx.Annotate(business.NewProvider, fx.As(new(deps.Provider))),
	),
)
