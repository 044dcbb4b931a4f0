package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/patient-records/internal/model"
)

// Service sends operational mail. Patient deletion is permanent, so
// the worker alerts the configured recipients whenever a delete event
// is published.
type Service interface {
	SendDeletionAlert(ctx context.Context, patient *model.Patient) error
}

type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	Recipients []string
}

type smtpService struct {
	dialer *gomail.Dialer
	cfg    SMTPConfig
}

func NewSMTPService(cfg SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		cfg:    cfg,
	}
}

func (s *smtpService) SendDeletionAlert(_ context.Context, patient *model.Patient) error {
	if len(s.cfg.Recipients) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.Recipients...)
	m.SetHeader("Subject", fmt.Sprintf("Patient record %d permanently deleted", patient.ID))
	m.SetBody("text/plain", fmt.Sprintf(
		"Patient record %d (%s %s, %s) was permanently deleted at %s.\n\nThis deletion is not recoverable.",
		patient.ID,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.UpdatedAt.Format("2006-01-02 15:04:05 MST"),
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send deletion alert: %w", err)
	}
	return nil
}

// NewNopService returns a mailer that silently drops everything, for
// deployments without SMTP configured.
func NewNopService() Service {
	return nopService{}
}

type nopService struct{}

func (nopService) SendDeletionAlert(context.Context, *model.Patient) error {
	return nil
}
