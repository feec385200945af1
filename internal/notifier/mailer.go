package notifier

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/azizrestaurant/restaurant-platform/internal/config"
	"github.com/azizrestaurant/restaurant-platform/pkg/logger"
)

// Mailer sends a single email
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay. Auth is used only when
// a username is configured, so a local dev relay works with no credentials.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger logger.Logger
}

// NewSMTPMailer creates a mailer for the given SMTP settings
func NewSMTPMailer(cfg config.SMTPConfig, logger logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		logger: logger,
	}
}

// Send delivers one HTML email to a single recipient
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	m.logger.Debug("Email sent", "to", to, "subject", subject)
	return nil
}
