package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jitendra-sudo/portfolio/internal/relay"
)

// Defaults of the EmailJS account the portfolio shipped with. They are public
// client-side identifiers, not secrets.
const (
	DefaultEmailJSService   = "service_x3a2i6m"
	DefaultEmailJSTemplate  = "template_7eau2ve"
	DefaultEmailJSPublicKey = "gYBZNlFsdDCwi81la"
)

type Config struct {
	Port         string
	Debug        bool
	DatabasePath string

	Relay relay.Config

	SessionIdleTimeout time.Duration
	VisitorRetention   time.Duration

	AdminUsername string
	AdminPassword string
}

// Load reads configuration from the environment, after loading .env if present.
func Load() (*Config, error) {
	// .env is optional; production sets real environment variables
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Debug:        getEnvBool("DEBUG", os.Getenv("GIN_MODE") != "release"),
		DatabasePath: getEnv("DATABASE_PATH", "portfolio.db"),
		Relay: relay.Config{
			Driver:  strings.ToLower(getEnv("RELAY_DRIVER", relay.DriverEmailJS)),
			Timeout: getEnvDuration("RELAY_TIMEOUT", 10*time.Second),
			EmailJS: relay.EmailJSConfig{
				ServiceID:  getEnv("EMAILJS_SERVICE_ID", DefaultEmailJSService),
				TemplateID: getEnv("EMAILJS_TEMPLATE_ID", DefaultEmailJSTemplate),
				PublicKey:  getEnv("EMAILJS_PUBLIC_KEY", DefaultEmailJSPublicKey),
				PrivateKey: getEnv("EMAILJS_PRIVATE_KEY", ""),
				Endpoint:   getEnv("EMAILJS_ENDPOINT", relay.DefaultEmailJSEndpoint),
			},
			SMTP: relay.SMTPConfig{
				Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
				Port:     getEnvInt("SMTP_PORT", 587),
				User:     getEnv("SMTP_USER", ""),
				Password: getEnv("SMTP_PASS", ""),
				To:       getEnv("TO_EMAIL", ""),
			},
			Resend: relay.ResendConfig{
				APIKey:      getEnv("RESEND_API_KEY", ""),
				SenderEmail: getEnv("RESEND_FROM_EMAIL", ""),
				To:          getEnv("TO_EMAIL", ""),
				Endpoint:    getEnv("RESEND_ENDPOINT", ""),
			},
		},
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		VisitorRetention:   getEnvDuration("VISITOR_RETENTION", 365*24*time.Hour),
		AdminUsername:      getEnv("ADMIN_USERNAME", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
	}

	return cfg, nil
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	return c.Relay.Validate()
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
