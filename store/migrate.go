package store

import (
	"fmt"

	"github.com/serviyapp/serviyapp-api/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the API uses
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Country{},
		&models.Region{},
		&models.City{},
		&models.User{},
		&models.Provider{},
		&models.ServiceOrder{},
		&models.Message{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
