package mail

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"time"
)

// Mailer delivers one-time codes out-of-band.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// ConsoleMailer logs codes instead of sending them. Used in development and
// whenever SMTP is not configured.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer { return &ConsoleMailer{} }

func (m *ConsoleMailer) SendOTP(_ context.Context, email, code string) error {
	log.Printf("[DEV-EMAIL] one-time code email=%s code=%s", email, code)
	return nil
}

// SMTPMailer sends codes through a plain-auth SMTP relay.
type SMTPMailer struct {
	addr    string
	auth    smtp.Auth
	from    string
	codeTTL time.Duration
}

func NewSMTPMailer(host, port, username, password, from string, codeTTL time.Duration) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		addr:    host + ":" + port,
		auth:    smtp.PlainAuth("", username, password, host),
		from:    from,
		codeTTL: codeTTL,
	}
}

func (m *SMTPMailer) SendOTP(_ context.Context, email, code string) error {
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, m.message(email, code)); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

func (m *SMTPMailer) message(email, code string) []byte {
	minutes := int(m.codeTTL.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\nYour code is %s. It expires in %d minutes.\r\n",
		m.from, email, code, minutes,
	))
}
