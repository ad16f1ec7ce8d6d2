// Package notify emails rendered loan statements over SMTP.
package notify

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/lendbook-dev/lendbook/internal/config"
)

// Sender sends statements to the configured recipient.
type Sender struct {
	cfg    config.NotifyConfig
	logger *logrus.Logger
}

// NewSender creates a Sender from the notify configuration.
func NewSender(cfg config.NotifyConfig, logger *logrus.Logger) *Sender {
	return &Sender{cfg: cfg, logger: logger}
}

// Configured reports whether enough settings are present to send mail.
func (s *Sender) Configured() bool {
	return s.cfg.SMTPHost != "" && s.cfg.To != "" && s.cfg.From != ""
}

// SendStatement emails a plain-text statement to the configured recipient.
func (s *Sender) SendStatement(subject, body string) error {
	if !s.Configured() {
		return errors.New("notify is not configured: smtp_host, from and to are required")
	}

	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{s.cfg.To}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("failed to send statement to %s: %v", s.cfg.To, err)
		return fmt.Errorf("sending statement: %w", err)
	}

	s.logger.Infof("statement sent to %s: %s", s.cfg.To, subject)
	return nil
}
