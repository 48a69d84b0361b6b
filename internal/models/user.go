package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone"`
	Address      string    `gorm:"type:varchar(255)" json:"address"`
	RoleID       string    `gorm:"type:uuid;index" json:"role_id"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsDeleted    bool      `gorm:"not null;default:false;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RoleTitle resolves the user's effective role, defaulting to "user" when the
// role reference is missing or unresolved.
func (u *User) RoleTitle() RoleTitle {
	if u.Role == nil || !u.Role.Title.Valid() {
		return RoleUser
	}
	return u.Role.Title
}
