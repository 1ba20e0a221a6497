package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEmailJSEndpoint is the EmailJS REST send endpoint.
const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSConfig selects the EmailJS account, template and client key.
// The public key is a browser-facing credential, not a secret.
type EmailJSConfig struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is sent as accessToken when the account requires it for
	// non-browser callers.
	PrivateKey string
	Endpoint   string
}

// EmailJS sends messages through the EmailJS REST API.
type EmailJS struct {
	cfg    EmailJSConfig
	client *http.Client
}

// NewEmailJS returns an EmailJS relay using the given timeout for each call.
func NewEmailJS(cfg EmailJSConfig, timeout time.Duration) *EmailJS {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailJSEndpoint
	}
	return &EmailJS{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

func (e *EmailJS) Name() string { return "emailjs" }

// Variables maps a message onto template variables. Sender and reply address
// go out under both the form's input names and EmailJS's conventional names,
// so templates written against either set render.
func Variables(msg Message) map[string]string {
	return map[string]string{
		"name":      msg.FromName,
		"email":     msg.ReplyTo,
		"from_name": msg.FromName,
		"reply_to":  msg.ReplyTo,
		"message":   msg.Body,
	}
}

func (e *EmailJS) Send(ctx context.Context, msg Message) (*Ack, error) {
	if e.cfg.ServiceID == "" || e.cfg.TemplateID == "" || e.cfg.PublicKey == "" {
		return nil, fmt.Errorf("emailjs: %w", ErrNotConfigured)
	}

	payload, err := json.Marshal(emailJSRequest{
		ServiceID:      e.cfg.ServiceID,
		TemplateID:     e.cfg.TemplateID,
		UserID:         e.cfg.PublicKey,
		AccessToken:    e.cfg.PrivateKey,
		TemplateParams: Variables(msg),
	})
	if err != nil {
		return nil, fmt.Errorf("emailjs: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("emailjs: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("emailjs: send: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	text := strings.TrimSpace(string(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Provider: e.Name(), StatusCode: resp.StatusCode, Body: text}
	}

	return &Ack{Provider: e.Name(), StatusCode: resp.StatusCode, Text: text}, nil
}
