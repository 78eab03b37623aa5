package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CleaningTask holds the descriptive fields of a checklist item. Completion
// lives in a separate TaskState row keyed by task id so that toggling never
// touches description edits.
type CleaningTask struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Description string    `gorm:"not null;size:255" json:"description"`
	Comment     string    `gorm:"size:255" json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *CleaningTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TaskState is the 1:1 completion record for a cleaning task. A missing row
// is read as incomplete.
type TaskState struct {
	TaskID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"task_id"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressRecord caches the completion percentage for the current assignee.
// The most recently updated row is authoritative; the stored percentage is
// derived from the task set and reconciled on every load.
type ProgressRecord struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Assignee             string    `gorm:"not null;size:100" json:"assignee"`
	CompletionPercentage int       `gorm:"not null;default:0" json:"completion_percentage"`
	LastUpdated          time.Time `gorm:"index" json:"last_updated"`
}

func (p *ProgressRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Request structs
type AddTaskRequest struct {
	Description string `json:"description" binding:"required"`
	Comment     string `json:"comment"`
}

type UpdateTaskRequest struct {
	Description string `json:"description"`
	Comment     string `json:"comment"`
}

type ChangeAssigneeRequest struct {
	Assignee string `json:"assignee" binding:"required"`
}

// Response structs
type TaskWithState struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Comment     string    `json:"comment,omitempty"`
	Completed   bool      `json:"completed"`
}

type CleaningOverview struct {
	Tasks        []TaskWithState `json:"tasks"`
	Assignee     string          `json:"assignee"`
	Percentage   int             `json:"percentage"`
	HandoffReady bool            `json:"handoff_ready"`
}
