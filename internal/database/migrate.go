package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/flowcoach-api/internal/models"
)

// Migrate creates or updates the four tables owned by the service.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UseCaseSet{},
		&models.WorkflowSubmission{},
		&models.JSONSubmission{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
