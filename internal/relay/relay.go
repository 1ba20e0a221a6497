// Package relay delivers contact form messages through a hosted email service.
//
// The portfolio never talks SMTP to the visitor; it hands the message to a
// relay (EmailJS by default) that renders the owner's template and delivers it.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNotConfigured is returned when a relay is missing required settings.
var ErrNotConfigured = errors.New("relay not configured")

// Message is what a visitor asked to send.
type Message struct {
	FromName string
	ReplyTo  string
	Body     string
}

// Ack is the relay's acknowledgement of an accepted message.
type Ack struct {
	Provider   string
	StatusCode int
	ID         string
	Text       string
}

// Relay sends a contact message. Implementations are safe for concurrent use.
type Relay interface {
	Name() string
	Send(ctx context.Context, msg Message) (*Ack, error)
}

// Error is a rejection reported by the relay itself.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: relay rejected message with status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: relay rejected message with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Kind classifies a send error for logs and analytics without leaking content.
func Kind(err error) string {
	var (
		relayErr *Error
		netErr   net.Error
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &relayErr):
		if relayErr.StatusCode >= 500 {
			return "relay_unavailable"
		}
		return "relay_rejected"
	default:
		return "network"
	}
}
