// internal/services/notification_service.go
package services

import (
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/scholartrack/backend/internal/config"
	"github.com/scholartrack/backend/internal/models"
	"github.com/scholartrack/backend/internal/queue"
)

const (
	NotificationTypeStatusChange = "application_status_change"
	NotificationTypeWelcome      = "welcome"
)

// NotificationService fans a status change out to the three channels the
// portal uses: an in-app notification row, a Kafka event for downstream
// consumers, and an email to the applicant. Only the database row is
// mandatory; the other two degrade to log lines when unconfigured.
type NotificationService struct {
	db       *gorm.DB
	producer *queue.Producer
	email    config.EmailConfig
	frontend config.FrontendConfig
}

func NewNotificationService(db *gorm.DB, producer *queue.Producer, emailCfg config.EmailConfig, frontendCfg config.FrontendConfig) *NotificationService {
	return &NotificationService{
		db:       db,
		producer: producer,
		email:    emailCfg,
		frontend: frontendCfg,
	}
}

// NotifyStatusChange records and delivers a workflow transition. Called
// after the transaction commits; a delivery failure never rolls back the
// transition itself.
func (s *NotificationService) NotifyStatusChange(app *models.Application, from, to models.ApplicationStatus, message string) {
	scholarshipName := "your scholarship"
	if app.Scholarship != nil {
		scholarshipName = app.Scholarship.Name
	}

	title := fmt.Sprintf("Application %s", to)
	body := fmt.Sprintf("Your application for %s is now %s.", scholarshipName, to)
	if message != "" {
		body = fmt.Sprintf("%s Note from the review team: %s", body, message)
	}

	notification := &models.Notification{
		UserID:        app.UserID,
		Type:          NotificationTypeStatusChange,
		Title:         title,
		Message:       body,
		ApplicationID: &app.ID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("application_id", app.ID).Error("Failed to create notification")
	}

	event := queue.StatusEvent{
		ApplicationID: app.ID.String(),
		UserID:        app.UserID.String(),
		FromStatus:    string(from),
		ToStatus:      string(to),
		Message:       message,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.producer.PublishStatusEvent(event); err != nil {
		logrus.WithError(err).WithField("application_id", app.ID).Warn("Status event not published")
	}

	if err := s.sendStatusEmail(app, to, body); err != nil {
		logrus.WithError(err).WithField("application_id", app.ID).Warn("Status email not sent")
	}
}

func (s *NotificationService) sendStatusEmail(app *models.Application, to models.ApplicationStatus, body string) error {
	if s.email.SMTPHost == "" {
		return nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.email.FromEmail, s.email.FromName))
	m.SetHeader("To", app.Email)
	m.SetHeader("Subject", fmt.Sprintf("Your scholarship application is %s", to))
	m.SetBody("text/plain", fmt.Sprintf(
		"Dear %s,\n\n%s\n\nTrack your application here: %s/my-applications\n\nRegards,\n%s",
		app.FullName, body, s.frontend.StudentBaseURL, s.email.FromName,
	))

	d := mail.NewDialer(s.email.SMTPHost, s.email.SMTPPort, s.email.SMTPUsername, s.email.SMTPPassword)
	d.StartTLSPolicy = mail.MandatoryStartTLS

	return d.DialAndSend(m)
}

// GetUserNotifications returns the user's notifications, newest first.
func (s *NotificationService) GetUserNotifications(userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var notifications []models.Notification
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead marks one of the user's notifications as read.
func (s *NotificationService) MarkAsRead(userID, notificationID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", &now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
