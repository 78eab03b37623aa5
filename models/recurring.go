package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// RecurringTask is a weekday/time schedule entry. The reminder scheduler
// matches Days and TimeOfDay against the current tick and notifies the
// assignees, at most once per day per task.
type RecurringTask struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string         `gorm:"not null;size:100" json:"title"`
	Assignees      pq.StringArray `gorm:"type:text[]" json:"assignees"`
	Days           pq.StringArray `gorm:"type:text[]" json:"days"`         // weekday names: Monday..Sunday
	TimeOfDay      string         `gorm:"size:5" json:"time_of_day"`       // HH:MM, 24h
	LastNotifiedAt *time.Time     `json:"last_notified_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (r *RecurringTask) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateRecurringTaskRequest struct {
	Title     string   `json:"title" binding:"required"`
	Assignees []string `json:"assignees"`
	Days      []string `json:"days" binding:"required"`
	TimeOfDay string   `json:"time_of_day" binding:"required"`
}

type UpdateRecurringTaskRequest struct {
	Title     string   `json:"title"`
	Assignees []string `json:"assignees"`
	Days      []string `json:"days"`
	TimeOfDay string   `json:"time_of_day"`
}
