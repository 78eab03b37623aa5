package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnassignedSentinel is the assignee value used when no profile owns the
// cleaning checklist. Assignee strings on bills, tasks and progress records
// reference profiles by name, so consumers must re-validate them against the
// live profile list on every read.
const UnassignedSentinel = "Unassigned"

type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Email          string    `gorm:"size:255" json:"email,omitempty"`
	Icon           string    `gorm:"size:50" json:"icon"`
	WhatsappNumber string    `gorm:"size:20" json:"whatsapp_number,omitempty"`
	PasswordHash   string    `gorm:"size:255" json:"-"`
	FCMToken       string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Icon           string    `json:"icon"`
	WhatsappNumber string    `json:"whatsapp_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Profile) ToResponse() ProfileResponse {
	return ProfileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Icon:           p.Icon,
		WhatsappNumber: p.WhatsappNumber,
		CreatedAt:      p.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Icon           string `json:"icon"`
	WhatsappNumber string `json:"whatsapp_number"`
}
