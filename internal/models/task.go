package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus normalizes a raw status into the closed set.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case TaskStatusPending:
		return TaskStatusPending, nil
	case TaskStatusInProgress:
		return TaskStatusInProgress, nil
	case TaskStatusCompleted:
		return TaskStatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown task status %q", s)
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority normalizes a raw priority into the closed set.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(s))) {
	case TaskPriorityLow:
		return TaskPriorityLow, nil
	case TaskPriorityMedium:
		return TaskPriorityMedium, nil
	case TaskPriorityHigh:
		return TaskPriorityHigh, nil
	default:
		return "", fmt.Errorf("unknown task priority %q", s)
	}
}

type Task struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string        `gorm:"type:varchar(255);not null" json:"title"`
	Description   string        `gorm:"type:text;not null" json:"description"`
	AssigneeID    string        `gorm:"type:uuid;not null;index" json:"assignee_id"`
	Status        TaskStatus    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate       *time.Time    `json:"due_date"`
	ProjectID     *string       `gorm:"type:uuid;index" json:"project_id"`
	Priority      TaskPriority  `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	StatusHistory StatusHistory `gorm:"type:jsonb" json:"status_history"`
	IsDeleted     bool          `gorm:"not null;default:false;index" json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	Assignee *User    `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// SeedHistory initializes the audit trail for a newly created task. Every
// task starts with exactly one pending entry attributed to its creator.
func (t *Task) SeedHistory(creatorID string, now time.Time) {
	t.Status = TaskStatusPending
	t.StatusHistory = StatusHistory{{
		Status:      TaskStatusPending,
		ChangedByID: creatorID,
		ChangedAt:   now,
		Note:        "Task created",
	}}
}

// RecordTransition appends a history entry and moves the task to the new
// status. A transition to the current status is a no-op. History and the
// status field live on the same row, so the caller's save commits both
// atomically. Returns whether anything changed.
func (t *Task) RecordTransition(next TaskStatus, changedByID, note string, now time.Time) bool {
	if next == t.Status {
		return false
	}
	if note == "" {
		note = fmt.Sprintf("Status changed from %s to %s", t.Status, next)
	}
	t.StatusHistory = append(t.StatusHistory, HistoryEntry{
		Status:      next,
		ChangedByID: changedByID,
		ChangedAt:   now,
		Note:        note,
	})
	t.Status = next
	return true
}
