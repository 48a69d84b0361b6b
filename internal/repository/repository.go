package repository

import (
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
)

// RoleRepository defines the interface for role reference data access
type RoleRepository interface {
	// FindByTitle finds a role by its normalized title
	FindByTitle(title models.RoleTitle) (*models.Role, error)

	// FindByID finds a role by ID
	FindByID(id string) (*models.Role, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a non-deleted user by ID with the role preloaded
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a non-deleted user by email with the role preloaded
	FindByEmail(email string) (*models.User, error)

	// FindByIDs finds users by ID regardless of tombstone state,
	// for resolving historical references
	FindByIDs(ids []string) ([]models.User, error)

	// ExistsByEmail reports whether a non-deleted user holds the email
	ExistsByEmail(email string) (bool, error)

	// ListAll lists every non-deleted user
	ListAll() ([]models.User, error)

	// ListSelfAndRole lists the given user plus every non-deleted user
	// holding the given role
	ListSelfAndRole(selfID, roleID string) ([]models.User, error)

	// ListActiveIDsByRole lists ids of active, non-deleted users holding the role
	ListActiveIDsByRole(roleID string) ([]string, error)

	// Update persists changes to a user
	Update(user *models.User) error
}

// ProjectFilter holds visibility scoping for listing projects. When both
// fields are set they are OR-combined; zero value means unrestricted.
type ProjectFilter struct {
	CreatedByID string
	MemberID    string
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and its member set in one transaction
	Create(project *models.Project, memberIDs []string) error

	// FindByID finds a project by ID including tombstoned rows; callers
	// decide how to treat the IsDeleted flag
	FindByID(id string) (*models.Project, error)

	// List lists non-deleted projects matching the visibility filter
	List(filter ProjectFilter) ([]models.Project, error)

	// Update persists project field changes
	Update(project *models.Project) error

	// ReplaceMembers swaps the project's member set
	ReplaceMembers(projectID string, memberIDs []string) error
}

// TaskFilter holds visibility scoping for listing tasks. A nil AssigneeIDs
// means unrestricted; an empty non-nil slice matches nothing.
type TaskFilter struct {
	AssigneeIDs []string
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID including tombstoned rows with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// List lists non-deleted tasks matching the visibility filter
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists the full task row, committing status and history together
	Update(task *models.Task) error
}
