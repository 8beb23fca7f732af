package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	settingserrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/errors"
)

var settingsColumns = []string{
	"autotyping",
	"autorecording",
	"alwaysonline",
	"antilink",
	"antibot",
	"autorespond",
	"auto_respond_triggers",
	"banned_words",
	"updated_at",
}

// Repository implements deps.Repository using PostgreSQL
type Repository struct {
	db *gorm.DB
}

var _ deps.Repository = (*Repository)(nil)

// NewRepository creates a new PostgreSQL settings repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load retrieves settings of an identity
func (r *Repository) Load(ctx context.Context, identity string) (*entities.Settings, error) {
	var err error
	var columns entities.Columns

	if domain.IsGroupIdentity(identity) {
		var model entities.GroupSettingsModel
		err = r.db.WithContext(ctx).Where("identity = ?", identity).First(&model).Error
		columns = model.Columns
	} else {
		var model entities.UserSettingsModel
		err = r.db.WithContext(ctx).Where("identity = ?", identity).First(&model).Error
		columns = model.Columns
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settingserrors.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return columns.ToEntity(), nil
}

// Save upserts settings of an identity
func (r *Repository) Save(ctx context.Context, identity string, settings entities.Settings) error {
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity"}},
		DoUpdates: clause.AssignmentColumns(settingsColumns),
	}

	var model interface{}
	if domain.IsGroupIdentity(identity) {
		model = &entities.GroupSettingsModel{Identity: identity, Columns: entities.ColumnsFrom(settings)}
	} else {
		model = &entities.UserSettingsModel{Identity: identity, Columns: entities.ColumnsFrom(settings)}
	}

	if err := r.db.WithContext(ctx).Clauses(upsert).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

// RecordActivity increments the command counter of a group
func (r *Repository) RecordActivity(ctx context.Context, identity string, at time.Time) error {
	if !domain.IsGroupIdentity(identity) {
		return settingserrors.ErrNotGroup
	}

	result := r.db.WithContext(ctx).
		Model(&entities.GroupSettingsModel{}).
		Where("identity = ?", identity).
		Updates(map[string]interface{}{
			"command_count": gorm.Expr("command_count + 1"),
			"last_active":   at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to record activity: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return settingserrors.ErrSettingsNotFound
	}

	return nil
}

// Activity returns command usage of a group
func (r *Repository) Activity(ctx context.Context, identity string) (*entities.Activity, error) {
	if !domain.IsGroupIdentity(identity) {
		return nil, settingserrors.ErrNotGroup
	}

	var model entities.GroupSettingsModel
	err := r.db.WithContext(ctx).
		Select("command_count", "last_active").
		Where("identity = ?", identity).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settingserrors.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	return &entities.Activity{CommandCount: model.CommandCount, LastActive: model.LastActive}, nil
}
