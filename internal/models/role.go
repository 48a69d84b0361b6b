package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleTitle is the closed set of roles the authorization rules are written
// against. Policy code switches exhaustively on this type; adding a role
// means revisiting every switch.
type RoleTitle string

const (
	RoleSuperAdmin RoleTitle = "super-admin"
	RoleManager    RoleTitle = "manager"
	RoleUser       RoleTitle = "user"
)

// ParseRoleTitle normalizes a raw title (case-insensitively) into the closed set.
func ParseRoleTitle(s string) (RoleTitle, error) {
	switch RoleTitle(strings.ToLower(strings.TrimSpace(s))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleManager:
		return RoleManager, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether the title is one of the three known roles.
func (r RoleTitle) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Role is seeded reference data; rows are created at boot and rarely touched.
type Role struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       RoleTitle `gorm:"type:varchar(20);uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
