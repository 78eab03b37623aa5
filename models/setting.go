package models

import "time"

// Setting keys
const (
	SettingMaxTasks = "max_tasks"
)

// HouseholdSetting is a key/value row for user-adjustable configuration,
// such as the maximum cleaning-task count.
type HouseholdSetting struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Value     string    `gorm:"not null;size:255" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}
