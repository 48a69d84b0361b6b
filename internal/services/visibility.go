package services

import (
	"errors"
	"fmt"

	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

// VisibilityService computes, per principal and resource kind, the set of
// record owners the principal may act upon. Manager scopes are recomputed on
// every call since membership in the user role changes between requests.
type VisibilityService struct {
	userRepo repository.UserRepository
	roles    *RoleCache
}

// NewVisibilityService creates a new VisibilityService
func NewVisibilityService(userRepo repository.UserRepository, roles *RoleCache) *VisibilityService {
	return &VisibilityService{
		userRepo: userRepo,
		roles:    roles,
	}
}

// TaskScope returns the assignee ids whose tasks the principal may see.
// A nil slice means unrestricted.
func (s *VisibilityService) TaskScope(p auth.Principal) ([]string, error) {
	switch p.Role {
	case models.RoleSuperAdmin:
		return nil, nil
	case models.RoleManager:
		return s.ManagerVisibleIDs(p.UserID)
	case models.RoleUser:
		return []string{p.UserID}, nil
	default:
		return []string{}, nil
	}
}

// ManagerVisibleIDs returns the manager's own id plus the ids of every
// active, non-deleted user holding the user role.
func (s *VisibilityService) ManagerVisibleIDs(managerID string) ([]string, error) {
	role, err := s.roles.Get(models.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []string{managerID}, nil
		}
		return nil, fmt.Errorf("failed to resolve user role: %w", err)
	}

	ids, err := s.userRepo.ListActiveIDsByRole(role.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list manageable users: %w", err)
	}

	return append([]string{managerID}, ids...), nil
}

// ManagerCanActOn reports whether the assignee falls inside the manager's
// visible set.
func (s *VisibilityService) ManagerCanActOn(managerID, assigneeID string) (bool, error) {
	ids, err := s.ManagerVisibleIDs(managerID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == assigneeID {
			return true, nil
		}
	}
	return false, nil
}

// ProjectFilter returns the repository filter scoping project listings for
// the principal.
func (s *VisibilityService) ProjectFilter(p auth.Principal) repository.ProjectFilter {
	switch p.Role {
	case models.RoleSuperAdmin:
		return repository.ProjectFilter{}
	case models.RoleManager:
		return repository.ProjectFilter{CreatedByID: p.UserID, MemberID: p.UserID}
	case models.RoleUser:
		return repository.ProjectFilter{MemberID: p.UserID}
	default:
		return repository.ProjectFilter{MemberID: p.UserID}
	}
}
