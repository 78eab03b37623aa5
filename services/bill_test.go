package services

import (
	"errors"
	"testing"
	"time"

	"household-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newTestBillService(t *testing.T) (*BillService, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := openTestDB(t)
	mailer := &fakeMailer{}
	svc := NewBillService(db, &NotificationService{Mail: mailer}, NewRealtime(nil))
	return svc, db, mailer
}

func createBill(t *testing.T, svc *BillService, title, due string, profiles []string) models.Bill {
	t.Helper()
	bill, err := svc.Create(models.CreateBillRequest{
		Title:            title,
		Amount:           120,
		PaymentDueDate:   due,
		SelectedProfiles: profiles,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return bill
}

func TestToggleStatusAdvancesPendingBillOneMonth(t *testing.T) {
	svc, _, _ := newTestBillService(t)
	bill := createBill(t, svc, "Electricity", "2024-01-15", nil)

	toggled, err := svc.ToggleStatus(bill.ID)
	if err != nil {
		t.Fatalf("ToggleStatus returned error: %v", err)
	}

	if toggled.Status != models.BillStatusPending {
		t.Fatalf("expected status pending, got %s", toggled.Status)
	}
	if got := toggled.PaymentDueDate.Format("2006-01-02"); got != "2024-02-15" {
		t.Fatalf("expected due date 2024-02-15, got %s", got)
	}
}

func TestToggleStatusRevertsPaidBillWithoutDateChange(t *testing.T) {
	svc, db, _ := newTestBillService(t)
	bill := createBill(t, svc, "Internet", "2024-03-10", nil)

	if err := db.Model(&models.Bill{}).Where("id = ?", bill.ID).
		Update("status", models.BillStatusPaid).Error; err != nil {
		t.Fatalf("failed to mark bill paid: %v", err)
	}

	toggled, err := svc.ToggleStatus(bill.ID)
	if err != nil {
		t.Fatalf("ToggleStatus returned error: %v", err)
	}

	if toggled.Status != models.BillStatusPending {
		t.Fatalf("expected status pending, got %s", toggled.Status)
	}
	if got := toggled.PaymentDueDate.Format("2006-01-02"); got != "2024-03-10" {
		t.Fatalf("expected due date unchanged, got %s", got)
	}
}

func TestDeleteCascadesNotificationRows(t *testing.T) {
	svc, db, _ := newTestBillService(t)
	bill := createBill(t, svc, "Water", "2024-05-01", nil)

	for _, ntype := range []string{models.NotificationDueDate, models.NotificationOverdue} {
		if err := db.Create(&models.BillNotification{BillID: bill.ID, NotificationType: ntype}).Error; err != nil {
			t.Fatalf("failed to create notification row: %v", err)
		}
	}

	if err := svc.Delete(bill.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var notifCount, billCount int64
	db.Model(&models.BillNotification{}).Where("bill_id = ?", bill.ID).Count(&notifCount)
	db.Model(&models.Bill{}).Where("id = ?", bill.ID).Count(&billCount)
	if notifCount != 0 || billCount != 0 {
		t.Fatalf("expected cascade delete, got notifications=%d bills=%d", notifCount, billCount)
	}
}

func TestDeleteUnknownBill(t *testing.T) {
	svc, _, _ := newTestBillService(t)

	if err := svc.Delete(uuid.New()); !errors.Is(err, ErrBillNotFound) {
		t.Fatalf("expected ErrBillNotFound, got %v", err)
	}
}

func TestScanDueSendsOnceAndRecordsIdempotencyRow(t *testing.T) {
	svc, db, mailer := newTestBillService(t)
	createProfile(t, db, "Alice")

	now := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	createBill(t, svc, "Electricity", "2024-01-15", []string{"Alice"})

	notified, err := svc.ScanDue(now)
	if err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if notified != 1 {
		t.Fatalf("expected 1 bill notified, got %d", notified)
	}
	if mailer.sentCount() != 1 {
		t.Fatalf("expected 1 email, got %d", mailer.sentCount())
	}

	// Second scan is a no-op: the (bill, type) record suppresses re-sends.
	notified, err = svc.ScanDue(now)
	if err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if notified != 0 {
		t.Fatalf("expected 0 bills notified on rescan, got %d", notified)
	}
	if mailer.sentCount() != 1 {
		t.Fatalf("expected no extra email, got %d", mailer.sentCount())
	}

	var records int64
	db.Model(&models.BillNotification{}).Count(&records)
	if records != 1 {
		t.Fatalf("expected exactly 1 notification record, got %d", records)
	}
}

func TestScanDueRetriesAfterFullyFailedSend(t *testing.T) {
	svc, db, mailer := newTestBillService(t)
	createProfile(t, db, "Alice")

	now := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	createBill(t, svc, "Rent", "2024-01-15", []string{"Alice"})

	mailer.fail = true
	notified, err := svc.ScanDue(now)
	if err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if notified != 0 {
		t.Fatalf("expected no bills recorded after failed batch, got %d", notified)
	}

	var records int64
	db.Model(&models.BillNotification{}).Count(&records)
	if records != 0 {
		t.Fatalf("failed batch must not write an idempotency record, got %d", records)
	}

	// The next scan retries the send.
	mailer.fail = false
	notified, err = svc.ScanDue(now)
	if err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if notified != 1 || mailer.sentCount() != 1 {
		t.Fatalf("expected retry to succeed, notified=%d sent=%d", notified, mailer.sentCount())
	}
}

func TestScanDueClassifiesOverdueBills(t *testing.T) {
	svc, db, mailer := newTestBillService(t)
	createProfile(t, db, "Alice")

	now := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	bill := createBill(t, svc, "Gas", "2024-01-15", []string{"Alice"})

	if _, err := svc.ScanDue(now); err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if mailer.sentCount() != 1 {
		t.Fatalf("expected 1 overdue email, got %d", mailer.sentCount())
	}

	var record models.BillNotification
	if err := db.First(&record, "bill_id = ?", bill.ID).Error; err != nil {
		t.Fatalf("expected notification record: %v", err)
	}
	if record.NotificationType != models.NotificationOverdue {
		t.Fatalf("expected overdue record, got %s", record.NotificationType)
	}
}

func TestScanDueIgnoresFarFutureBills(t *testing.T) {
	svc, _, mailer := newTestBillService(t)

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	createBill(t, svc, "Insurance", "2024-06-01", []string{"Alice"})

	notified, err := svc.ScanDue(now)
	if err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if notified != 0 || mailer.sentCount() != 0 {
		t.Fatalf("expected no reminders, notified=%d sent=%d", notified, mailer.sentCount())
	}
}

func TestShareAmountSplitsEvenly(t *testing.T) {
	bill := models.Bill{Amount: 120, SplitBetween: 3}
	if got := bill.ShareAmount(); got != 40 {
		t.Fatalf("expected share 40, got %.2f", got)
	}

	solo := models.Bill{Amount: 120}
	if got := solo.ShareAmount(); got != 120 {
		t.Fatalf("expected full amount for single payer, got %.2f", got)
	}
}

func TestCreateActivityReferencesBill(t *testing.T) {
	svc, db, _ := newTestBillService(t)
	bill := createBill(t, svc, "Electricity", "2024-01-15", nil)

	var activity models.Activity
	if err := db.Order("created_at DESC").First(&activity, "type = ?", "bill_created").Error; err != nil {
		t.Fatalf("expected a bill_created activity: %v", err)
	}
	if activity.ReferenceID != bill.ID {
		t.Fatalf("bill_created activity references %s, want %s", activity.ReferenceID, bill.ID)
	}
}

func TestToggleStatusResetsNotificationsForNewCycle(t *testing.T) {
	svc, db, mailer := newTestBillService(t)
	createProfile(t, db, "Alice")

	now := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)
	bill := createBill(t, svc, "Rent", "2024-01-15", []string{"Alice"})

	if _, err := svc.ScanDue(now); err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if mailer.sentCount() != 1 {
		t.Fatalf("expected 1 reminder for the first cycle, got %d", mailer.sentCount())
	}

	// Rescheduling starts a new due cycle; the old guard rows must go.
	if _, err := svc.ToggleStatus(bill.ID); err != nil {
		t.Fatalf("ToggleStatus returned error: %v", err)
	}

	var records int64
	db.Model(&models.BillNotification{}).Where("bill_id = ?", bill.ID).Count(&records)
	if records != 0 {
		t.Fatalf("expected notification rows cleared on reschedule, got %d", records)
	}

	nextCycle := time.Date(2024, 2, 14, 9, 0, 0, 0, time.UTC)
	notified, err := svc.ScanDue(nextCycle)
	if err != nil {
		t.Fatalf("ScanDue returned error: %v", err)
	}
	if notified != 1 || mailer.sentCount() != 2 {
		t.Fatalf("expected a fresh reminder next cycle, notified=%d sent=%d", notified, mailer.sentCount())
	}
}
