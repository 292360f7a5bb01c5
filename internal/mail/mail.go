package mail

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/avasiliev/feedback-service/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendWelcome sends a greeting to a freshly registered user
func (s *Sender) SendWelcome(to, username string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Welcome! You successfully created your account.\n"+
			"You can now post feedback from your profile page.\n"+
			"\nBest regards,\nFeedback Service",
		username,
	)
	return s.send(to, "Welcome to Feedback Service", body)
}

// SendAccountDeleted confirms account removal
func (s *Sender) SendAccountDeleted(to, username string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account and all feedback you posted have been deleted.\n"+
			"\nBest regards,\nFeedback Service",
		username,
	)
	return s.send(to, "Your account has been deleted", body)
}

// SendDigest mails the admin a summary of recent feedback activity
func (s *Sender) SendDigest(to string, count int, since time.Time) error {
	body := fmt.Sprintf(
		"Feedback activity since %s:\n\n"+
			"%d new feedback entries were posted.\n"+
			"\nBest regards,\nFeedback Service",
		since.Format("2006-01-02 15:04:05"), count,
	)
	return s.send(to, "Daily feedback digest", body)
}

func (s *Sender) send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}
