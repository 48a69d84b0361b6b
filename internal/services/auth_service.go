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

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDeactivated   = errors.New("account is deactivated")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo      repository.UserRepository
	roles         *RoleCache
	tokens        *auth.TokenService
	adminEmail    string
	adminPassword string
}

// NewAuthService creates a new AuthService. adminEmail/adminPassword are the
// fixed built-in administrator credentials.
func NewAuthService(userRepo repository.UserRepository, roles *RoleCache, tokens *auth.TokenService, adminEmail, adminPassword string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		roles:         roles,
		tokens:        tokens,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
	}
}

// RegisterInput represents the required information for public registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
	Address  string
}

// Register creates a new user with the default user role and returns the
// created record plus a signed session token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	// Public registration always gets the default user role.
	role, err := s.roles.Get(models.RoleUser)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve default role: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
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
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to reload user: %w", err)
	}

	token, err := s.tokens.Sign(created.ID, string(created.RoleTitle()))
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return created, token, nil
}

// Login verifies credentials and returns the resolved principal, the backing
// user record (nil for the built-in administrator) and a signed token.
func (s *AuthService) Login(email, password string) (auth.Principal, *models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// The built-in administrator is not backed by a users row.
	if email == s.adminEmail && password == s.adminPassword {
		token, err := s.tokens.Sign(auth.BuiltinAdminSubject, string(models.RoleSuperAdmin))
		if err != nil {
			return auth.Principal{}, nil, "", fmt.Errorf("failed to sign token: %w", err)
		}
		return auth.BuiltinAdmin(), nil, token, nil
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Principal{}, nil, "", ErrInvalidCredentials
		}
		return auth.Principal{}, nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return auth.Principal{}, nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return auth.Principal{}, nil, "", ErrAccountDeactivated
	}

	token, err := s.tokens.Sign(user.ID, string(user.RoleTitle()))
	if err != nil {
		return auth.Principal{}, nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return auth.FromUser(user), user, token, nil
}

// GetUser retrieves a non-deleted user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
