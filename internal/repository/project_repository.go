package repository

import (
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and its member set in one transaction
func (r *GormProjectRepository) Create(project *models.Project, memberIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return createMembers(tx, project.ID, memberIDs)
	})
}

// FindByID finds a project by ID including tombstoned rows
func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("CreatedBy").
		Preload("Members.User").
		Where("id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists non-deleted projects matching the visibility filter
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, error) {
	query := r.db.Model(&models.Project{}).Where("projects.is_deleted = ?", false)

	memberSub := r.db.Model(&models.ProjectMember{}).
		Select("1").
		Where("project_members.project_id = projects.id").
		Where("project_members.user_id = ?", filter.MemberID)

	switch {
	case filter.CreatedByID != "" && filter.MemberID != "":
		query = query.Where("projects.created_by_id = ? OR EXISTS (?)", filter.CreatedByID, memberSub)
	case filter.MemberID != "":
		query = query.Where("EXISTS (?)", memberSub)
	case filter.CreatedByID != "":
		query = query.Where("projects.created_by_id = ?", filter.CreatedByID)
	}

	var projects []models.Project
	if err := query.Preload("CreatedBy").
		Preload("Members.User").
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update persists project field changes
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// ReplaceMembers swaps the project's member set
func (r *GormProjectRepository) ReplaceMembers(projectID string, memberIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).
			Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		return createMembers(tx, projectID, memberIDs)
	})
}

func createMembers(tx *gorm.DB, projectID string, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return nil
	}
	members := make([]models.ProjectMember, 0, len(memberIDs))
	for _, id := range memberIDs {
		members = append(members, models.ProjectMember{ProjectID: projectID, UserID: id})
	}
	return tx.Create(&members).Error
}
