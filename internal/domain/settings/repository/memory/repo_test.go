package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	settingserrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/errors"
)

func TestRepository_LoadSave(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	_, err := repo.Load(ctx, "user:1")
	assert.ErrorIs(t, err, settingserrors.ErrSettingsNotFound)

	require.NoError(t, repo.Save(ctx, "user:1", entities.Settings{AntiBot: true}))

	got, err := repo.Load(ctx, "user:1")
	require.NoError(t, err)
	assert.True(t, got.AntiBot)
	assert.NotNil(t, got.AutoRespondTriggers)

	_, err = repo.Load(ctx, "group:1")
	assert.ErrorIs(t, err, settingserrors.ErrSettingsNotFound)
}

func TestRepository_Activity(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	at := time.Now()

	assert.ErrorIs(t, repo.RecordActivity(ctx, "group:2", at), settingserrors.ErrSettingsNotFound)

	require.NoError(t, repo.Save(ctx, "group:2", entities.Settings{}))
	require.NoError(t, repo.RecordActivity(ctx, "group:2", at))

	activity, err := repo.Activity(ctx, "group:2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), activity.CommandCount)

	_, err = repo.Activity(ctx, "user:2")
	assert.ErrorIs(t, err, settingserrors.ErrNotGroup)
}
