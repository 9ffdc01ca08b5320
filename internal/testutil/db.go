// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"paydesk/config"
	"paydesk/internal/database"
	"paydesk/internal/domain"
	"paydesk/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database that lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewDB(&config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// FixedTime is the clock used by deterministic tests.
var FixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

// NewPayment builds a pending payment without persisting it.
func NewPayment(name, email, amount string) *models.Payment {
	return &models.Payment{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Amount:    decimal.RequireFromString(amount),
		Status:    domain.StatusPending,
		Reference: uuid.New(),
		CreatedAt: FixedTime,
	}
}
