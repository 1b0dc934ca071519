package database

import (
	"fmt"

	"github.com/VncsRaniery/habitask-sub001/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Professor{},
		&models.Subject{},
		&models.Task{},
		&models.SessionPomodoro{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
