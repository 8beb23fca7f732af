package deps

import (
	"context"
	"time"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
)

// Repository persists settings records. Group and individual identities
// live in separate namespaces.
type Repository interface {
	// Load returns ErrSettingsNotFound when no record exists
	Load(ctx context.Context, identity string) (*entities.Settings, error)
	Save(ctx context.Context, identity string, settings entities.Settings) error
	RecordActivity(ctx context.Context, identity string, at time.Time) error
	Activity(ctx context.Context, identity string) (*entities.Activity, error)
}

// Store is the settings API used by the pipeline, the dispatcher and the
// admin endpoints. Every mutator is a full read-modify-write of the record.
type Store interface {
	Get(ctx context.Context, identity string) (entities.Settings, error)
	Set(ctx context.Context, identity string, settings entities.Settings) error
	Toggle(ctx context.Context, identity, flag string, value bool) (entities.Settings, error)
	AddTrigger(ctx context.Context, identity, trigger, response string) (entities.Settings, error)
	RemoveTrigger(ctx context.Context, identity, trigger string) (entities.Settings, error)
	AddBannedWord(ctx context.Context, identity, word string) (entities.Settings, error)
	RemoveBannedWord(ctx context.Context, identity, word string) (entities.Settings, error)
	RecordActivity(ctx context.Context, identity string) error
	Activity(ctx context.Context, identity string) (entities.Activity, error)
}
