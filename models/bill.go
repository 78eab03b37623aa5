package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	BillStatusPending = "pending"
	BillStatusPaid    = "paid"

	NotificationDueDate = "due_date"
	NotificationOverdue = "overdue"
)

type Bill struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title            string         `gorm:"not null;size:100" json:"title"`
	Amount           float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentDueDate   time.Time      `gorm:"type:date;not null" json:"payment_due_date"`
	Status           string         `gorm:"default:pending;size:20" json:"status"` // pending, paid
	SelectedProfiles pq.StringArray `gorm:"type:text[]" json:"selected_profiles"`
	SplitBetween     int            `gorm:"default:1" json:"split_between"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ShareAmount is the per-person share used in reminder emails.
func (b *Bill) ShareAmount() float64 {
	if b.SplitBetween <= 1 {
		return b.Amount
	}
	return b.Amount / float64(b.SplitBetween)
}

// BillNotification is an idempotency guard: at most one row per (bill, type).
// Its presence suppresses re-sending that notification class.
type BillNotification struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BillID           uuid.UUID `gorm:"type:uuid;index:idx_bill_notification,unique" json:"bill_id"`
	NotificationType string    `gorm:"size:20;index:idx_bill_notification,unique" json:"notification_type"` // due_date, overdue
	CreatedAt        time.Time `json:"created_at"`
}

func (n *BillNotification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Request structs
type CreateBillRequest struct {
	Title            string   `json:"title" binding:"required"`
	Amount           float64  `json:"amount" binding:"required,gt=0"`
	PaymentDueDate   string   `json:"payment_due_date" binding:"required"` // YYYY-MM-DD
	SelectedProfiles []string `json:"selected_profiles"`
	SplitBetween     int      `json:"split_between"`
}

type UpdateBillRequest struct {
	Title            string   `json:"title"`
	Amount           float64  `json:"amount"`
	PaymentDueDate   string   `json:"payment_due_date"`
	SelectedProfiles []string `json:"selected_profiles"`
	SplitBetween     int      `json:"split_between"`
}
