package services

import (
	"fmt"
	"log"
	"net/smtp"

	"caseportal/internal/config"
	"caseportal/internal/core/domain"
)

// Mailer is the OTP mail collaborator contract: deliver a code to an address,
// fail loudly on transport error (no silent drop)
type Mailer interface {
	Send(to, code string) error
}

// SMTPMailer delivers OTP codes over SMTP
type SMTPMailer struct {
	cfg     config.SMTPConfig
	enabled bool
}

// NewSMTPMailer creates a new SMTP mailer. With no SMTP_HOST configured the
// mailer runs disabled and logs codes instead of sending (dev mode).
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:     cfg,
		enabled: cfg.Host != "",
	}
}

// IsEnabled checks if real delivery is configured
func (m *SMTPMailer) IsEnabled() bool {
	return m.enabled
}

// Send delivers a one-time passcode to the given address
func (m *SMTPMailer) Send(to, code string) error {
	if !m.enabled {
		log.Printf("📧 [mail disabled] OTP for %s: %s", to, code)
		return nil
	}

	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\n"+
			"Your one-time passcode is: %s\r\n\r\n"+
			"It expires in %d minutes. If you did not request it, ignore this message.\r\n",
		m.cfg.From, to, code, domain.OTPValidityMinutes,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSendFailed, err)
	}
	return nil
}
