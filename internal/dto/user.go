package dto

import (
	"time"

	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
)

// RoleDTO is the role projection returned by the API.
type RoleDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UserDTO is the user projection returned by the API. Password material is
// never part of it.
type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      *RoleDTO  `json:"role,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRefDTO is the compact user reference embedded in other resources.
type UserRefDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ToUserDTO converts a user model to its API projection.
func ToUserDTO(u models.User) UserDTO {
	dto := UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.Role != nil {
		dto.Role = &RoleDTO{
			ID:          u.Role.ID,
			Title:       string(u.Role.Title),
			Description: u.Role.Description,
		}
	}
	return dto
}

// ToUserDTOs converts a slice of user models.
func ToUserDTOs(users []models.User) []UserDTO {
	result := make([]UserDTO, 0, len(users))
	for _, u := range users {
		result = append(result, ToUserDTO(u))
	}
	return result
}

// ToUserRefDTO converts a user model to its compact reference form.
func ToUserRefDTO(u *models.User) *UserRefDTO {
	if u == nil {
		return nil
	}
	return &UserRefDTO{ID: u.ID, Username: u.Username, Email: u.Email}
}

// PrincipalUserDTO builds a user projection straight from a principal, for
// identities without a backing record (the built-in administrator).
func PrincipalUserDTO(p auth.Principal) UserDTO {
	return UserDTO{
		ID:       p.UserID,
		Username: p.Username,
		Email:    p.Email,
		Role:     &RoleDTO{Title: string(p.Role)},
		IsActive: true,
	}
}
