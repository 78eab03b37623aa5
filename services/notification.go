package services

import (
	"context"
	"fmt"
	"log"

	"household-backend/config"
	"household-backend/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

// MailSender delivers a single HTML email. Callers treat failures as
// non-fatal; the reminder scanner uses the error to decide whether its
// idempotency record may be written.
type MailSender interface {
	Send(toEmail, toName, subject, htmlBody string) error
}

// PushSender delivers a push notification to a device token.
type PushSender interface {
	Send(token, title, body string, data map[string]string) error
}

type NotificationService struct {
	Mail MailSender
	Push PushSender
}

var notifService *NotificationService

func GetNotificationService() *NotificationService {
	if notifService == nil {
		notifService = &NotificationService{
			Mail: &sendgridMailer{},
			Push: newFCMPusher(),
		}
	}
	return notifService
}

// ============================================================
// EMAIL via SendGrid
// ============================================================

type sendgridMailer struct{}

func (m *sendgridMailer) Send(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendGridAPIKey == "" {
		return fmt.Errorf("sendgrid API key not configured")
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// ============================================================
// PUSH via Firebase Cloud Messaging
// ============================================================

type fcmPusher struct {
	client *messaging.Client
}

func newFCMPusher() *fcmPusher {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
	if err != nil {
		log.Println("⚠️  Firebase not configured, running without push:", err)
		return &fcmPusher{}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Println("⚠️  FCM client unavailable, running without push:", err)
		return &fcmPusher{}
	}

	return &fcmPusher{client: client}
}

func (p *fcmPusher) Send(token, title, body string, data map[string]string) error {
	if p.client == nil || token == "" {
		return nil
	}

	_, err := p.client.Send(context.Background(), &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	return err
}

// ============================================================
// NOTIFICATION EVENTS
// ============================================================

// NotifyTaskToggled tells the current assignee their checklist moved.
func (ns *NotificationService) NotifyTaskToggled(assignee models.Profile, taskDescription string, completed bool, percentage int) {
	verb := "reopened"
	if completed {
		verb = "completed"
	}

	title := fmt.Sprintf("Cleaning task %s", verb)
	body := fmt.Sprintf("\"%s\" was %s. You are now at %d%%.", taskDescription, verb, percentage)

	ns.sendPush(assignee.FCMToken, title, body, map[string]string{"type": "task_toggled"})

	if assignee.Email != "" {
		ns.sendMail(assignee.Email, assignee.Name, title, buildProgressEmailHTML(assignee.Name, taskDescription, verb, percentage))
	}
}

// NotifyHandoff tells the new assignee the checklist is now theirs.
func (ns *NotificationService) NotifyHandoff(newAssignee models.Profile) {
	title := "General cleaning is yours now"
	body := fmt.Sprintf("Hi %s, the cleaning checklist was handed off to you. It starts fresh at 0%%.", newAssignee.Name)

	ns.sendPush(newAssignee.FCMToken, title, body, map[string]string{"type": "assignee_changed"})

	if newAssignee.Email != "" {
		ns.sendMail(newAssignee.Email, newAssignee.Name, title, buildHandoffEmailHTML(newAssignee.Name))
	}
}

// NotifyBillReminder emails every recipient about an upcoming or overdue
// bill and returns how many sends succeeded. The caller only records its
// idempotency row when at least one went through.
func (ns *NotificationService) NotifyBillReminder(bill models.Bill, recipients []models.Profile, overdue bool) int {
	subject := fmt.Sprintf("Reminder: \"%s\" is due on %s", bill.Title, bill.PaymentDueDate.Format("Jan 2, 2006"))
	if overdue {
		subject = fmt.Sprintf("Overdue: \"%s\" was due on %s", bill.Title, bill.PaymentDueDate.Format("Jan 2, 2006"))
	}

	sent := 0
	for _, p := range recipients {
		if p.Email == "" {
			continue
		}
		html := buildBillEmailHTML(p.Name, bill, overdue)
		if err := ns.Mail.Send(p.Email, p.Name, subject, html); err != nil {
			log.Printf("⚠️  Bill reminder to %s failed: %v", p.Email, err)
			continue
		}
		sent++
		ns.sendPush(p.FCMToken, subject, fmt.Sprintf("Your share is %.2f", bill.ShareAmount()), map[string]string{
			"type":    "bill_reminder",
			"bill_id": bill.ID.String(),
		})
	}
	return sent
}

// NotifyRecurringTask pings the assignees when a schedule entry matches.
func (ns *NotificationService) NotifyRecurringTask(task models.RecurringTask, recipients []models.Profile) {
	title := fmt.Sprintf("Time for \"%s\"", task.Title)
	body := fmt.Sprintf("Scheduled for %s today.", task.TimeOfDay)

	for _, p := range recipients {
		ns.sendPush(p.FCMToken, title, body, map[string]string{"type": "recurring_task", "task_id": task.ID.String()})
		if p.Email != "" {
			ns.sendMail(p.Email, p.Name, title, buildRecurringEmailHTML(p.Name, task))
		}
	}
}

func (ns *NotificationService) sendMail(toEmail, toName, subject, htmlBody string) {
	if ns.Mail == nil {
		return
	}
	if err := ns.Mail.Send(toEmail, toName, subject, htmlBody); err != nil {
		log.Printf("⚠️  Email to %s failed: %v", toEmail, err)
		return
	}
	log.Printf("✅ Email sent to %s", toEmail)
}

func (ns *NotificationService) sendPush(token, title, body string, data map[string]string) {
	if ns.Push == nil || token == "" {
		return
	}
	if err := ns.Push.Send(token, title, body, data); err != nil {
		log.Printf("⚠️  Push notification failed: %v", err)
	}
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

func buildProgressEmailHTML(name, taskDescription, verb string, percentage int) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🧹 Checklist Update</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p>The task <strong>"%s"</strong> was %s.</p>
		<p style="font-size: 18px;">Your checklist is now at <strong>%d%%</strong>.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— HomeBase</p>
	</div>
</body>
</html>`, name, taskDescription, verb, percentage)
}

func buildHandoffEmailHTML(name string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🔄 Cleaning Handoff</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p>The general cleaning checklist was handed off to you. All tasks are reset and the counter starts at 0%%.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— HomeBase</p>
	</div>
</body>
</html>`, name)
}

func buildBillEmailHTML(name string, bill models.Bill, overdue bool) string {
	headline := "💡 Bill Due Soon"
	if overdue {
		headline = "⚠️ Bill Overdue"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">%s</h2>
		<p>Hi <strong>%s</strong>,</p>
		<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
			<p style="margin: 4px 0; font-size: 18px;"><strong>%s</strong></p>
			<p style="margin: 4px 0; color: #666;">Total: %.2f · Due: %s</p>
			<p style="margin: 4px 0; color: #e53e3e; font-size: 18px;"><strong>Your share: %.2f</strong></p>
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— HomeBase</p>
	</div>
</body>
</html>`, headline, name, bill.Title, bill.Amount, bill.PaymentDueDate.Format("Jan 2, 2006"), bill.ShareAmount())
}

func buildRecurringEmailHTML(name string, task models.RecurringTask) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">⏰ Task Reminder</h2>
		<p>Hi <strong>%s</strong>,</p>
		<p><strong>"%s"</strong> is scheduled for <strong>%s</strong> today.</p>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— HomeBase</p>
	</div>
</body>
</html>`, name, task.Title, task.TimeOfDay)
}
