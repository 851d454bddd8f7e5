package db

import (
	"vlanman/internal/models"

	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for every domain model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.VlanConfig{},
		&models.ActivityLog{},
	)
}
