package notifications

import (
	"strings"

	"github.com/bvofrades/incident-bot/internal/config"
	"github.com/bvofrades/incident-bot/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service fans an alert out to the configured channels. Telegram is the
// primary channel and determines the reported DeliveryResult; the optional
// email copy is best-effort and never affects the outcome.
type Service struct {
	config   *config.Config
	telegram Notifier
}

var _ Notifier = (*Service)(nil)

// NewService creates the notification service.
func NewService(cfg *config.Config, telegram Notifier) *Service {
	return &Service{
		config:   cfg,
		telegram: telegram,
	}
}

// Send dispatches the payload to Telegram and, when configured, mails a
// plain-text copy.
func (s *Service) Send(payload models.NotificationPayload) models.DeliveryResult {
	result := s.telegram.Send(payload)

	if s.config.NotificationEmail != "" {
		if err := s.sendEmailCopy(payload); err != nil {
			logrus.Errorf("Failed to send email copy: %v", err)
		}
	}

	return result
}

func (s *Service) sendEmailCopy(payload models.NotificationPayload) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", "Nova ocorrência "+payload.IncidentID)

	body := stripMarkdown(payload.Text)
	if payload.ActionURL != "" {
		body += "\n\n" + payload.ActionText + ": " + payload.ActionURL
	}
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	return d.DialAndSend(m)
}

// stripMarkdown removes the Telegram Markdown decorations for the plain
// text email body.
func stripMarkdown(text string) string {
	replacer := strings.NewReplacer("*", "", "_", "")
	return replacer.Replace(text)
}
