package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/constants"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("invalid role specified")

// UserService handles user administration and role-scoped listing.
type UserService struct {
	userRepo repository.UserRepository
	roles    *RoleCache
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, roles *RoleCache) *UserService {
	return &UserService{
		userRepo: userRepo,
		roles:    roles,
	}
}

// List returns the users visible to the principal. Super-admins see every
// non-deleted user; managers see themselves plus user-role accounts
// (including deactivated ones, so suspended employees stay visible);
// everyone else sees only themselves.
func (s *UserService) List(p auth.Principal) ([]models.User, error) {
	switch p.Role {
	case models.RoleSuperAdmin:
		users, err := s.userRepo.ListAll()
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	case models.RoleManager:
		role, err := s.roles.Get(models.RoleUser)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.listSelf(p.UserID)
			}
			return nil, fmt.Errorf("failed to resolve user role: %w", err)
		}
		users, err := s.userRepo.ListSelfAndRole(p.UserID, role.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		return users, nil
	default:
		return s.listSelf(p.UserID)
	}
}

func (s *UserService) listSelf(userID string) ([]models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.User{}, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return []models.User{*user}, nil
}

// GetByID retrieves a non-deleted user.
func (s *UserService) GetByID(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUserInput represents input for admin user creation.
type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	Phone     string
	Address   string
	RoleTitle string
}

// Create creates a user with an explicit role (defaulting to user).
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	rawTitle := input.RoleTitle
	if rawTitle == "" {
		rawTitle = string(models.RoleUser)
	}
	title, err := models.ParseRoleTitle(rawTitle)
	if err != nil {
		return nil, ErrInvalidRole
	}
	role, err := s.roles.Get(title)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRole
		}
		return nil, fmt.Errorf("failed to resolve role: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		RoleID:       role.ID,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.userRepo.FindByID(user.ID)
}

// UpdateUserInput represents input for admin user updates. Nil fields are
// left untouched.
type UpdateUserInput struct {
	Username  *string
	Phone     *string
	Address   *string
	IsActive  *bool
	RoleTitle *string
	Password  *string
}

// Update applies field changes to a user.
func (s *UserService) Update(id string, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.RoleTitle != nil {
		title, err := models.ParseRoleTitle(*input.RoleTitle)
		if err != nil {
			return nil, ErrInvalidRole
		}
		role, err := s.roles.Get(title)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidRole
			}
			return nil, fmt.Errorf("failed to resolve role: %w", err)
		}
		user.RoleID = role.ID
		user.Role = nil
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.userRepo.FindByID(user.ID)
}

// Delete soft-deletes a user. The row remains but is excluded from every
// query and can no longer authenticate.
func (s *UserService) Delete(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.IsDeleted = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return user, nil
}
