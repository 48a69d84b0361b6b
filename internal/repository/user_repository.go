package repository

import (
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a non-deleted user by ID with the role preloaded
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a non-deleted user by email with the role preloaded
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Role").
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs finds users by ID regardless of tombstone state
func (r *GormUserRepository) FindByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ExistsByEmail reports whether a non-deleted user holds the email
func (r *GormUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("email = ? AND is_deleted = ?", email, false).
		Count(&count).Error
	return count > 0, err
}

// ListAll lists every non-deleted user
func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Role").
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListSelfAndRole lists the given user plus every non-deleted user holding the role
func (r *GormUserRepository) ListSelfAndRole(selfID, roleID string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Role").
		Where("(id = ? OR role_id = ?) AND is_deleted = ?", selfID, roleID, false).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListActiveIDsByRole lists ids of active, non-deleted users holding the role
func (r *GormUserRepository) ListActiveIDsByRole(roleID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.User{}).
		Where("role_id = ? AND is_deleted = ? AND is_active = ?", roleID, false, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
