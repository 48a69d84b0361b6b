package repository

import (
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByTitle finds a role by its normalized title
func (r *GormRoleRepository) FindByTitle(title models.RoleTitle) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("title = ?", title).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(id string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Where("id = ?", id).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}
