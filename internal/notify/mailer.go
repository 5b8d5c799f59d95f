package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"gradebook/internal/config"
)

// Email is a single outbound message.
type Email struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SMTPMailer delivers over a plain SMTP transport.
type SMTPMailer struct {
	cfg config.SMTP
}

// NewSMTPMailer creates a mailer from SMTP config.
func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers the email to all recipients in one SMTP transaction.
func (m *SMTPMailer) Send(_ context.Context, email Email) error {
	if len(email.To) == 0 {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", email.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(email.Body)

	if err := smtp.SendMail(addr, auth, m.cfg.From, email.To, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
