package postgres

import (
	"fmt"

	"github.com/SAP-F-2025/university-service/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the Student, Course and Enrollment tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
