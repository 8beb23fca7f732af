package deps

import (
	"context"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/dto"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/entities"
	settingsentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
)

// Executor runs a command on the remote executor
type Executor interface {
	Execute(ctx context.Context, requestID string, req dto.ExecuteRequest) (*entities.Result, error)
}

// MediaFetcher resolves the attachment of a result
type MediaFetcher interface {
	Fetch(ctx context.Context, result *entities.Result) (*domain.Media, error)
}

// ObjectStore reads objects referenced as s3://bucket/key
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, string, error)
}

// ActivityRecorder counts dispatched group commands
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, identity string) error
}

// Dispatcher sends commands to the executor and replies with the outcome
type Dispatcher interface {
	BuildContext(ctx context.Context, msg domain.Message, settings settingsentities.Settings) entities.CommandContext
	// Dispatch replies to the message in every case. The returned error is
	// the executor failure, already reported to the chat.
	Dispatch(ctx context.Context, cmd entities.Command) error
}
