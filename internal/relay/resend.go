package relay

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/resend/resend-go/v3"
)

// ResendConfig holds the Resend API settings.
type ResendConfig struct {
	APIKey      string
	SenderEmail string
	To          string
	// Endpoint overrides the API base URL.
	Endpoint string
}

// Resend forwards contact messages to the owner through the Resend API.
type Resend struct {
	cfg     ResendConfig
	client  *resend.Client
	timeout time.Duration
}

// NewResend returns a Resend relay.
func NewResend(cfg ResendConfig, timeout time.Duration) (*Resend, error) {
	client := resend.NewClient(cfg.APIKey)
	if cfg.Endpoint != "" {
		base, err := url.Parse(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("resend: parse endpoint: %w", err)
		}
		client.BaseURL = base
	}
	return &Resend{cfg: cfg, client: client, timeout: timeout}, nil
}

func (r *Resend) Name() string { return "resend" }

func (r *Resend) Send(ctx context.Context, msg Message) (*Ack, error) {
	if r.cfg.APIKey == "" || r.cfg.SenderEmail == "" || r.cfg.To == "" {
		return nil, fmt.Errorf("resend: %w", ErrNotConfigured)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "Portfolio", r.cfg.SenderEmail),
		To:      []string{r.cfg.To},
		ReplyTo: msg.ReplyTo,
		Subject: Subject(msg),
		Text:    PlainBody(msg),
	})
	if err != nil {
		return nil, fmt.Errorf("resend: failed to send email: %w", err)
	}

	return &Ack{Provider: r.Name(), ID: sent.Id}, nil
}
