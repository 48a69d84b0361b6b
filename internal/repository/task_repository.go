package repository

import (
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID including tombstoned rows with optional preloading
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List lists non-deleted tasks matching the visibility filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	if filter.AssigneeIDs != nil && len(filter.AssigneeIDs) == 0 {
		return []models.Task{}, nil
	}

	query := r.db.Model(&models.Task{}).Where("is_deleted = ?", false)
	if filter.AssigneeIDs != nil {
		query = query.Where("assignee_id IN ?", filter.AssigneeIDs)
	}

	var tasks []models.Task
	if err := query.Preload("Assignee").
		Preload("Project").
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists the full task row. Status and history live on the same
// row, so a single save keeps the audit trail consistent with the status
// field.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}
