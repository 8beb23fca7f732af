package database

import (
	"context"

	"github.com/SAVX-BOY/dead-x-bot/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides database components for fx dependency injection
var Module = fx.Module("database",
	fx.Provide(NewPostgresDBFx),
)

// NewPostgresDBFx creates a PostgreSQL connection with fx lifecycle management.
// It returns a nil *gorm.DB when no database is configured; consumers then
// run on their in-memory implementations.
func NewPostgresDBFx(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	if !cfg.Enabled() {
		logger.Warn().Msg("Database not configured, using in-memory stores")
		return nil, nil
	}

	db, err := NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db, cfg); err != nil {
		// migrations may already be applied by another instance
		logger.Warn().Err(err).Msg("Failed to run migrations")
	} else {
		logger.Info().Msg("Database migrations completed successfully")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing database connection")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	logger.Info().
		Str("host", cfg.Host).
		Str("database", cfg.DBName).
		Msg("Database connected successfully")

	return db, nil
}
