package dto

import (
	"time"

	"github.com/rsaxena-dev/task-tracker-api/internal/constants"
	"github.com/rsaxena-dev/task-tracker-api/internal/models"
)

// TaskDTO is the task projection returned by the API.
type TaskDTO struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Assignee      *UserRefDTO       `json:"assignee,omitempty"`
	Status        string            `json:"status"`
	DueDate       *time.Time        `json:"due_date"`
	Project       *ProjectRefDTO    `json:"project,omitempty"`
	Priority      string            `json:"priority"`
	StatusHistory []HistoryEntryDTO `json:"status_history"`
	CreatedAt     time.Time         `json:"created_at"`
}

// HistoryEntryDTO is one materialized audit entry.
type HistoryEntryDTO struct {
	Status    string     `json:"status"`
	ChangedBy UserRefDTO `json:"changed_by"`
	ChangedAt time.Time  `json:"changed_at"`
	Note      string     `json:"note"`
}

// ToTaskDTO converts a task model to its API projection. historyUsers maps
// changed-by ids to user records; an entry pointing at the reserved
// built-in-admin id gets a synthesized display identity rather than a
// dangling reference.
func ToTaskDTO(t models.Task, historyUsers map[string]models.User) TaskDTO {
	history := make([]HistoryEntryDTO, 0, len(t.StatusHistory))
	for _, entry := range t.StatusHistory {
		history = append(history, HistoryEntryDTO{
			Status:    string(entry.Status),
			ChangedBy: resolveChangedBy(entry.ChangedByID, historyUsers),
			ChangedAt: entry.ChangedAt,
			Note:      entry.Note,
		})
	}

	dto := TaskDTO{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Assignee:      ToUserRefDTO(t.Assignee),
		Status:        string(t.Status),
		DueDate:       t.DueDate,
		Priority:      string(t.Priority),
		StatusHistory: history,
		CreatedAt:     t.CreatedAt,
	}
	if t.Project != nil {
		dto.Project = &ProjectRefDTO{
			ID:          t.Project.ID,
			Name:        t.Project.Name,
			Description: t.Project.Description,
		}
	}
	return dto
}

// ToTaskDTOs converts a slice of task models sharing one resolved user map.
func ToTaskDTOs(tasks []models.Task, historyUsers map[string]models.User) []TaskDTO {
	result := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, ToTaskDTO(t, historyUsers))
	}
	return result
}

func resolveChangedBy(id string, users map[string]models.User) UserRefDTO {
	if id == constants.BuiltinAdminID {
		return UserRefDTO{
			ID:       constants.BuiltinAdminID,
			Username: constants.BuiltinAdminUsername,
			Email:    constants.BuiltinAdminEmail,
		}
	}
	if u, ok := users[id]; ok {
		return UserRefDTO{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return UserRefDTO{ID: id}
}
