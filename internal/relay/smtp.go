package relay

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the mailbox used to forward contact messages to the owner.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	To       string
}

// dialer is the part of gomail.Dialer the SMTP relay needs.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTP forwards contact messages to the owner's inbox over SMTP.
type SMTP struct {
	cfg     SMTPConfig
	dialer  dialer
	timeout time.Duration
}

// NewSMTP returns an SMTP relay that gives up on a send after timeout.
func NewSMTP(cfg SMTPConfig, timeout time.Duration) *SMTP {
	return &SMTP{
		cfg:     cfg,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		timeout: timeout,
	}
}

func (s *SMTP) Name() string { return "smtp" }

func (s *SMTP) Send(ctx context.Context, msg Message) (*Ack, error) {
	if s.cfg.User == "" || s.cfg.Password == "" || s.cfg.To == "" {
		return nil, fmt.Errorf("smtp: %w", ErrNotConfigured)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.User)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Reply-To", msg.ReplyTo)
	m.SetHeader("Subject", Subject(msg))
	m.SetBody("text/plain", PlainBody(msg))

	// gomail has no context support; the send keeps running after ctx is done
	// but the caller stops waiting for it.
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("smtp: send: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("smtp: send: %w", ctx.Err())
	}

	return &Ack{Provider: s.Name(), Text: "queued for " + s.cfg.To}, nil
}

// Subject is the subject line used by relays that compose the mail themselves.
func Subject(msg Message) string {
	return fmt.Sprintf("Portfolio Contact: %s", msg.FromName)
}

// PlainBody is the text body used by relays that compose the mail themselves.
func PlainBody(msg Message) string {
	return fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.FromName, msg.ReplyTo, msg.Body)
}
