package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rsaxena-dev/task-tracker-api/internal/auth"
	"github.com/rsaxena-dev/task-tracker-api/internal/constants"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"github.com/rsaxena-dev/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTaskTitleRequired      = errors.New("task title and description are required")
	ErrPastDueDate            = errors.New("due date cannot be in the past")
	ErrAssigneeNotFound       = errors.New("target user not found")
	ErrManagerAssignForbidden = errors.New("managers can only assign tasks to users (employees)")
	ErrTaskWriteForbidden     = errors.New("you cannot modify this task")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrInvalidTaskPriority    = errors.New("invalid task priority")
)

// TaskService handles task CRUD behind the role gate plus the status-history
// audit trail.
type TaskService struct {
	taskRepo   repository.TaskRepository
	userRepo   repository.UserRepository
	visibility *VisibilityService
	now        func() time.Time
}

// NewTaskService creates a new TaskService. A nil clock defaults to time.Now.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, visibility *VisibilityService, clock func() time.Time) *TaskService {
	if clock == nil {
		clock = time.Now
	}
	return &TaskService{
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		visibility: visibility,
		now:        clock,
	}
}

// List returns the tasks visible to the principal.
func (s *TaskService) List(p auth.Principal) ([]models.Task, error) {
	scope, err := s.visibility.TaskScope(p)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{AssigneeIDs: scope})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	AssigneeID  string
	DueDate     *time.Time
	ProjectID   *string
	Priority    string
}

// Create creates a task. User-role principals always get the task themselves
// regardless of the requested assignee; managers may only target active
// user-role accounts; super-admins may target anyone.
func (s *TaskService) Create(p auth.Principal, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" || input.Description == "" {
		return nil, ErrTaskTitleRequired
	}

	if input.DueDate != nil && s.isPastDate(*input.DueDate) {
		return nil, ErrPastDueDate
	}

	priority := models.TaskPriorityMedium
	if input.Priority != "" {
		parsed, err := models.ParseTaskPriority(input.Priority)
		if err != nil {
			return nil, ErrInvalidTaskPriority
		}
		priority = parsed
	}

	assigneeID := input.AssigneeID
	if assigneeID == "" {
		assigneeID = p.UserID
	}

	switch p.Role {
	case models.RoleUser:
		// Silent override: users can only create tasks for themselves.
		assigneeID = p.UserID
	case models.RoleManager:
		target, err := s.userRepo.FindByID(assigneeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssigneeNotFound
			}
			return nil, fmt.Errorf("failed to find target user: %w", err)
		}
		if !target.IsActive {
			return nil, ErrAssigneeNotFound
		}
		if target.ID != p.UserID && target.RoleTitle() != models.RoleUser {
			return nil, ErrManagerAssignForbidden
		}
	case models.RoleSuperAdmin:
		// Any target.
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  assigneeID,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		Priority:    priority,
	}
	task.SeedHistory(p.UserID, s.now())

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Project")
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// untouched. Note annotates the history entry when the status changes.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Note        string
}

// Update applies field changes to a task the principal may write. A status
// change appends exactly one history entry attributed to the principal and
// is persisted in the same row write as the rest of the update.
func (s *TaskService) Update(p auth.Principal, id string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findWritable(p, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		status, err := models.ParseTaskStatus(*input.Status)
		if err != nil {
			return nil, ErrInvalidTaskStatus
		}
		task.RecordTransition(status, p.UserID, input.Note, s.now())
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Project")
}

// Delete soft-deletes a task the principal may write.
func (s *TaskService) Delete(p auth.Principal, id string) error {
	task, err := s.findWritable(p, id)
	if err != nil {
		return err
	}

	task.IsDeleted = true
	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// HistoryUsers resolves the user records referenced by the tasks' history
// entries, keyed by id. The built-in admin id is skipped; display code
// synthesizes that identity.
func (s *TaskService) HistoryUsers(tasks []models.Task) (map[string]models.User, error) {
	idSet := make(map[string]struct{})
	for i := range tasks {
		for _, entry := range tasks[i].StatusHistory {
			if entry.ChangedByID == constants.BuiltinAdminID {
				continue
			}
			idSet[entry.ChangedByID] = struct{}{}
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve history users: %w", err)
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// findWritable loads the task and applies the write gate: users may touch
// only their own tasks, managers anything inside their visible set,
// super-admins anything.
func (s *TaskService) findWritable(p auth.Principal, id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if task.IsDeleted {
		return nil, ErrTaskNotFound
	}

	switch p.Role {
	case models.RoleSuperAdmin:
		return task, nil
	case models.RoleManager:
		ok, err := s.visibility.ManagerCanActOn(p.UserID, task.AssigneeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrTaskWriteForbidden
		}
		return task, nil
	default:
		if task.AssigneeID != p.UserID {
			return nil, ErrTaskWriteForbidden
		}
		return task, nil
	}
}

// isPastDate reports whether the date falls before today, comparing at
// midnight the way the due-date rule is defined.
func (s *TaskService) isPastDate(t time.Time) bool {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	selected := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return selected.Before(today)
}
