package database

import (
	"fmt"

	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// SeedRoles creates the three reference roles if they do not exist yet.
// Safe to run on every boot.
func SeedRoles(db *gorm.DB) error {
	roles := []models.Role{
		{Title: models.RoleSuperAdmin, Description: "Full system access"},
		{Title: models.RoleManager, Description: "Manage team and tasks"},
		{Title: models.RoleUser, Description: "Basic user access"},
	}

	for _, role := range roles {
		var count int64
		if err := db.Model(&models.Role{}).Where("title = ?", role.Title).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check role %s: %w", role.Title, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", role.Title, err)
		}
	}

	return nil
}
