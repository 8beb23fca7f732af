package database

import (
	"context"

	"gorm.io/gorm"
)

// HealthChecker pings the database connection pool
type HealthChecker struct {
	db *gorm.DB
}

// NewHealthChecker creates a checker for db
func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// HealthCheck reports whether the database answers a ping
func (h *HealthChecker) HealthCheck(ctx context.Context) bool {
	sqlDB, err := h.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
