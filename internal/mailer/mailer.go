// Package mailer sends notification emails over SMTP.
package mailer

import (
	"fmt"

	"github.com/vendaflow/crm-api/internal/config"
	"github.com/vendaflow/crm-api/internal/domain"
	"gopkg.in/gomail.v2"
	"go.uber.org/zap"
)

// Mailer sends notification emails
type Mailer interface {
	SendDealWon(owner *domain.User, deal *domain.Deal) error
}

// NopMailer discards all mail
type NopMailer struct{}

func (NopMailer) SendDealWon(owner *domain.User, deal *domain.Deal) error { return nil }

// SMTPMailer sends mail through a configured SMTP server
type SMTPMailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewMailer returns an SMTP mailer when mail is enabled, otherwise a NopMailer
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	if !cfg.Enabled {
		return NopMailer{}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// SendDealWon notifies the deal owner that their deal closed as won
func (m *SMTPMailer) SendDealWon(owner *domain.User, deal *domain.Deal) error {
	value := "no value"
	if deal.Value != nil {
		value = fmt.Sprintf("%.2f", *deal.Value)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", owner.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Deal won: %s", deal.Title))
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour deal %q was marked as won (%s).\n\nKeep it up!\n",
		owner.FirstName, deal.Title, value,
	))

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Info("deal won notification sent",
		zap.String("deal_id", deal.ID.String()),
		zap.String("to", owner.Email))
	return nil
}
