package services

import (
	"errors"
	"fmt"
	"time"

	"household-backend/config"
	"household-backend/database"
	"household-backend/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrBillNotFound = errors.New("bill not found")

// BillService tracks recurring shared expenses. "Paying" a pending bill
// reschedules it one calendar month forward instead of archiving it; product
// has been asked about the mismatch with the "mark as paid" wording and this
// keeps the shipped behavior until they decide.
type BillService struct {
	db       *gorm.DB
	notifier *NotificationService
	mutator  *Mutator
}

var billService *BillService

func GetBillService() *BillService {
	if billService == nil {
		billService = NewBillService(database.DB, GetNotificationService(), GetRealtime())
	}
	return billService
}

func NewBillService(db *gorm.DB, notifier *NotificationService, rt *Realtime) *BillService {
	return &BillService{db: db, notifier: notifier, mutator: NewMutator(db, rt)}
}

func (s *BillService) Create(req models.CreateBillRequest) (models.Bill, error) {
	dueDate, err := time.Parse("2006-01-02", req.PaymentDueDate)
	if err != nil {
		return models.Bill{}, fmt.Errorf("invalid payment_due_date: %w", err)
	}

	splitBetween := req.SplitBetween
	if splitBetween <= 0 {
		splitBetween = len(req.SelectedProfiles)
		if splitBetween == 0 {
			splitBetween = 1
		}
	}

	bill := models.Bill{
		Title:            req.Title,
		Amount:           req.Amount,
		PaymentDueDate:   dueDate,
		Status:           models.BillStatusPending,
		SelectedProfiles: req.SelectedProfiles,
		SplitBetween:     splitBetween,
	}

	err = s.mutator.Apply(Mutation{
		Table:        "bills",
		Event:        "INSERT",
		ActivityType: "bill_created",
		Description:  fmt.Sprintf("Created bill \"%s\" (%.2f)", bill.Title, bill.Amount),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			if err := db.Create(&bill).Error; err != nil {
				return uuid.Nil, err
			}
			return bill.ID, nil
		},
	})
	return bill, err
}

func (s *BillService) List() ([]models.Bill, error) {
	var bills []models.Bill
	err := s.db.Order("payment_due_date ASC").Find(&bills).Error
	return bills, err
}

func (s *BillService) Get(id uuid.UUID) (models.Bill, error) {
	var bill models.Bill
	if err := s.db.First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Bill{}, ErrBillNotFound
		}
		return models.Bill{}, err
	}
	return bill, nil
}

func (s *BillService) Update(id uuid.UUID, req models.UpdateBillRequest) (models.Bill, error) {
	bill, err := s.Get(id)
	if err != nil {
		return models.Bill{}, err
	}

	updates := map[string]interface{}{}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Amount > 0 {
		updates["amount"] = req.Amount
	}
	if req.PaymentDueDate != "" {
		dueDate, perr := time.Parse("2006-01-02", req.PaymentDueDate)
		if perr != nil {
			return models.Bill{}, fmt.Errorf("invalid payment_due_date: %w", perr)
		}
		updates["payment_due_date"] = dueDate
	}
	if req.SelectedProfiles != nil {
		updates["selected_profiles"] = pq.StringArray(req.SelectedProfiles)
	}
	if req.SplitBetween > 0 {
		updates["split_between"] = req.SplitBetween
	}

	err = s.mutator.Apply(Mutation{
		Table:        "bills",
		Event:        "UPDATE",
		ActivityType: "bill_updated",
		Description:  fmt.Sprintf("Updated bill \"%s\"", bill.Title),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			return bill.ID, db.Model(&bill).Updates(updates).Error
		},
	})
	if err != nil {
		return models.Bill{}, err
	}
	return s.Get(id)
}

// ToggleStatus on a pending bill rolls the due date forward one calendar
// month and keeps it pending; on a non-pending bill it reverts to pending
// without touching the date.
func (s *BillService) ToggleStatus(id uuid.UUID) (models.Bill, error) {
	bill, err := s.Get(id)
	if err != nil {
		return models.Bill{}, err
	}

	updates := map[string]interface{}{"status": models.BillStatusPending}
	description := fmt.Sprintf("Reverted \"%s\" to pending", bill.Title)
	rescheduled := bill.Status == models.BillStatusPending
	if rescheduled {
		updates["payment_due_date"] = bill.PaymentDueDate.AddDate(0, 1, 0)
		description = fmt.Sprintf("Rescheduled \"%s\" to next month", bill.Title)
	}

	err = s.mutator.Apply(Mutation{
		Table:        "bills",
		Event:        "UPDATE",
		ActivityType: "bill_toggled",
		Description:  description,
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			if err := db.Model(&bill).Updates(updates).Error; err != nil {
				return uuid.Nil, err
			}
			// A new due cycle starts fresh: without this, the rows written
			// for the previous cycle would suppress every later reminder.
			if rescheduled {
				if err := db.Where("bill_id = ?", bill.ID).Delete(&models.BillNotification{}).Error; err != nil {
					return uuid.Nil, err
				}
			}
			return bill.ID, nil
		},
	})
	if err != nil {
		return models.Bill{}, err
	}
	return s.Get(id)
}

// Delete removes the bill's notification rows before the bill itself. There
// is no wrapping transaction, mirroring the sequenced round-trips of the
// store contract, so a failure between the two steps is surfaced rather than
// silently half-applied.
func (s *BillService) Delete(id uuid.UUID) error {
	bill, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.mutator.Apply(Mutation{
		Table:        "bills",
		Event:        "DELETE",
		ActivityType: "bill_deleted",
		Description:  fmt.Sprintf("Deleted bill \"%s\"", bill.Title),
		Run: func(db *gorm.DB) (uuid.UUID, error) {
			if err := db.Where("bill_id = ?", id).Delete(&models.BillNotification{}).Error; err != nil {
				return uuid.Nil, err
			}
			return bill.ID, db.Delete(&bill).Error
		},
	})
}

// ScanDue finds pending bills that are due soon or overdue and sends the
// matching reminder class at most once per (bill, type). The idempotency row
// is only written when at least one recipient send succeeded, so a fully
// failed batch is retried on the next scan.
func (s *BillService) ScanDue(now time.Time) (int, error) {
	var bills []models.Bill
	if err := s.db.Where("status = ?", models.BillStatusPending).Find(&bills).Error; err != nil {
		return 0, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, s.dueSoonDays())

	notified := 0
	for _, bill := range bills {
		due := bill.PaymentDueDate

		var notifType string
		overdue := false
		switch {
		case due.Before(today):
			notifType = models.NotificationOverdue
			overdue = true
		case !due.After(horizon):
			notifType = models.NotificationDueDate
		default:
			continue
		}

		var existing int64
		if err := s.db.Model(&models.BillNotification{}).
			Where("bill_id = ? AND notification_type = ?", bill.ID, notifType).
			Count(&existing).Error; err != nil {
			return notified, err
		}
		if existing > 0 {
			continue
		}

		recipients, err := s.resolveProfiles(bill.SelectedProfiles)
		if err != nil {
			return notified, err
		}

		if sent := s.notifier.NotifyBillReminder(bill, recipients, overdue); sent > 0 {
			record := models.BillNotification{BillID: bill.ID, NotificationType: notifType}
			if err := s.db.Create(&record).Error; err != nil {
				return notified, err
			}
			notified++
		}
	}

	return notified, nil
}

// resolveProfiles maps stored assignee names to live profiles, dropping
// names whose profile was deleted since the bill was saved.
func (s *BillService) resolveProfiles(names []string) ([]models.Profile, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var profiles []models.Profile
	err := s.db.Where("name IN ?", []string(names)).Find(&profiles).Error
	return profiles, err
}

func (s *BillService) dueSoonDays() int {
	if config.AppConfig != nil {
		return config.AppConfig.DueSoonDays
	}
	return 3
}
