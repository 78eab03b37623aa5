package services

import (
	"context"
	"log"
	"strings"
	"time"

	"household-backend/config"
	"household-backend/database"
	"household-backend/models"

	"gorm.io/gorm"
)

// ReminderService replaces the scheduled serverless functions of the hosted
// deployment: a bill due-date scanner and a recurring-task weekday/time
// matcher, both driven by a single ticker.
type ReminderService struct {
	db       *gorm.DB
	bills    *BillService
	notifier *NotificationService
	interval time.Duration
}

var reminderService *ReminderService

func GetReminderService() *ReminderService {
	if reminderService == nil {
		interval := time.Minute
		if config.AppConfig != nil && config.AppConfig.ReminderIntervalSec > 0 {
			interval = time.Duration(config.AppConfig.ReminderIntervalSec) * time.Second
		}
		reminderService = NewReminderService(database.DB, GetBillService(), GetNotificationService(), interval)
	}
	return reminderService
}

func NewReminderService(db *gorm.DB, bills *BillService, notifier *NotificationService, interval time.Duration) *ReminderService {
	return &ReminderService{db: db, bills: bills, notifier: notifier, interval: interval}
}

// Start runs the reminder loop until the context is cancelled.
func (s *ReminderService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if _, err := s.RunOnce(now); err != nil {
					log.Printf("⚠️  Reminder run failed: %v", err)
				}
			}
		}
	}()
}

// RunOnce performs one scan of both reminder classes and returns how many
// bill reminders went out. Also exposed over HTTP as a manual trigger.
func (s *ReminderService) RunOnce(now time.Time) (int, error) {
	notified, err := s.bills.ScanDue(now)
	if err != nil {
		return notified, err
	}

	if err := s.matchRecurring(now); err != nil {
		return notified, err
	}

	return notified, nil
}

// matchRecurring notifies assignees of every schedule entry matching the
// current weekday and minute, at most once per task per day.
func (s *ReminderService) matchRecurring(now time.Time) error {
	var tasks []models.RecurringTask
	if err := s.db.Find(&tasks).Error; err != nil {
		return err
	}

	weekday := now.Weekday().String()
	clock := now.Format("15:04")

	for i := range tasks {
		task := &tasks[i]

		if task.TimeOfDay != clock || !containsFold(task.Days, weekday) {
			continue
		}
		if task.LastNotifiedAt != nil && sameDay(*task.LastNotifiedAt, now) {
			continue
		}

		recipients, err := s.bills.resolveProfiles(task.Assignees)
		if err != nil {
			return err
		}

		go s.notifier.NotifyRecurringTask(*task, recipients)

		if err := s.db.Model(task).Update("last_notified_at", now).Error; err != nil {
			return err
		}
		log.Printf("✅ Recurring task reminder sent for \"%s\"", task.Title)
	}

	return nil
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
