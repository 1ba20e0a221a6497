package relay

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Drivers understood by New.
const (
	DriverEmailJS = "emailjs"
	DriverSMTP    = "smtp"
	DriverResend  = "resend"
	DriverLog     = "log"
)

// Config selects and configures the relay used for contact messages.
type Config struct {
	Driver  string
	Timeout time.Duration
	EmailJS EmailJSConfig
	SMTP    SMTPConfig
	Resend  ResendConfig
}

// Validate checks that the selected driver has its required settings.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverEmailJS:
		if c.EmailJS.ServiceID == "" || c.EmailJS.TemplateID == "" || c.EmailJS.PublicKey == "" {
			return fmt.Errorf("emailjs service, template and public key are required: %w", ErrNotConfigured)
		}
	case DriverSMTP:
		if c.SMTP.Host == "" || c.SMTP.User == "" || c.SMTP.Password == "" || c.SMTP.To == "" {
			return fmt.Errorf("SMTP credentials not configured: %w", ErrNotConfigured)
		}
	case DriverResend:
		if c.Resend.APIKey == "" || c.Resend.SenderEmail == "" || c.Resend.To == "" {
			return fmt.Errorf("resend api key, sender and recipient are required: %w", ErrNotConfigured)
		}
	case DriverLog:
	default:
		return fmt.Errorf("unknown relay driver %q", c.Driver)
	}
	return nil
}

// New builds the relay selected by cfg.Driver.
func New(cfg Config, log *zap.Logger) (Relay, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverSMTP:
		return NewSMTP(cfg.SMTP, cfg.Timeout), nil
	case DriverResend:
		r, err := NewResend(cfg.Resend, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return r, nil
	case DriverLog:
		return NewLog(log), nil
	default:
		return NewEmailJS(cfg.EmailJS, cfg.Timeout), nil
	}
}
