package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription mirrors the payment provider's webhook payload. Rows are
// upserted keyed on (email, plan).
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;index:idx_subscription_email_plan,unique" json:"email"`
	Plan      string    `gorm:"size:50;index:idx_subscription_email_plan,unique" json:"plan"`
	Status    string    `gorm:"size:20" json:"status"` // active, cancelled, past_due
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type PaymentWebhookRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Plan   string `json:"plan" binding:"required"`
	Status string `json:"status" binding:"required"`
}
