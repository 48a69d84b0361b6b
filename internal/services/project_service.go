package services

import (
	"errors"
	"fmt"

	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound        = errors.New("project not found")
	ErrProjectCreateForbidden = errors.New("only admins and managers can create projects")
	ErrProjectWriteForbidden  = errors.New("you can only modify your own projects")
	ErrProjectNameRequired    = errors.New("project name is required")
)

// ProjectService handles project CRUD behind the role gate. Membership
// grants visibility only; write access belongs to the creator and
// super-admins.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	visibility  *VisibilityService
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, visibility *VisibilityService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		visibility:  visibility,
	}
}

// List returns the projects visible to the principal.
func (s *ProjectService) List(p auth.Principal) ([]models.Project, error) {
	projects, err := s.projectRepo.List(s.visibility.ProjectFilter(p))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	MemberIDs   []string
}

// Create creates a project owned by the principal.
func (s *ProjectService) Create(p auth.Principal, input CreateProjectInput) (*models.Project, error) {
	switch p.Role {
	case models.RoleSuperAdmin, models.RoleManager:
	default:
		return nil, ErrProjectCreateForbidden
	}

	if input.Name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		CreatedByID: p.UserID,
	}

	if err := s.projectRepo.Create(project, uniqueStrings(input.MemberIDs)); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID)
}

// UpdateProjectInput represents input for updating a project. Nil fields are
// left untouched; a non-nil MemberIDs replaces the member set.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	MemberIDs   *[]string
}

// Update applies field changes to a project the principal may write.
func (s *ProjectService) Update(p auth.Principal, id string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findWritable(p, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	if input.MemberIDs != nil {
		if err := s.projectRepo.ReplaceMembers(project.ID, uniqueStrings(*input.MemberIDs)); err != nil {
			return nil, fmt.Errorf("failed to update project members: %w", err)
		}
	}

	return s.projectRepo.FindByID(project.ID)
}

// Delete soft-deletes a project the principal may write.
func (s *ProjectService) Delete(p auth.Principal, id string) error {
	project, err := s.findWritable(p, id)
	if err != nil {
		return err
	}

	project.IsDeleted = true
	if err := s.projectRepo.Update(project); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// findWritable loads the project and applies the write gate: creators and
// super-admins only. Membership never grants write access.
func (s *ProjectService) findWritable(p auth.Principal, id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.IsDeleted {
		return nil, ErrProjectNotFound
	}

	switch p.Role {
	case models.RoleSuperAdmin:
		return project, nil
	case models.RoleManager:
		if project.CreatedByID != p.UserID {
			return nil, ErrProjectWriteForbidden
		}
		return project, nil
	default:
		return nil, ErrProjectCreateForbidden
	}
}

// uniqueStrings removes duplicate values while preserving order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
