package dto

import (
	"time"

	"github.com/rsaxena-dev/task-tracker-api/internal/models"
)

// ProjectDTO is the project projection returned by the API.
type ProjectDTO struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedBy   *UserRefDTO  `json:"created_by,omitempty"`
	Members     []UserRefDTO `json:"members"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ProjectRefDTO is the compact project reference embedded in tasks.
type ProjectRefDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToProjectDTO converts a project model to its API projection.
func ToProjectDTO(p models.Project) ProjectDTO {
	members := make([]UserRefDTO, 0, len(p.Members))
	for _, m := range p.Members {
		if ref := ToUserRefDTO(m.User); ref != nil {
			members = append(members, *ref)
		}
	}
	return ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   ToUserRefDTO(p.CreatedBy),
		Members:     members,
		CreatedAt:   p.CreatedAt,
	}
}

// ToProjectDTOs converts a slice of project models.
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	result := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		result = append(result, ToProjectDTO(p))
	}
	return result
}
