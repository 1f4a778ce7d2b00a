package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Mail transport selectors for AppConfig.MailTransport.
const (
	TransportSMTP    = "smtp"
	TransportResend  = "resend"
	TransportPreview = "preview"
)

// AppConfig holds all process-level configuration for the application.
// Per-event settings live in the TOML documents, see EventConfig.
type AppConfig struct {
	LogLevel      string
	Environment   string
	DataDir       string // directory scanned for *.toml event configs
	DateLocale    string // locale for the long-form %(date)s variable
	MailTransport string // smtp, resend or preview
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	ResendAPIKey  string
	CronSpecDaily string // daemon mode schedule
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.DataDir = os.Getenv("REMINDER_DATA_DIR")
	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		cfg.DataDir = filepath.Join(base, "remindermail")
	}

	cfg.DateLocale = os.Getenv("DATE_LOCALE")
	if cfg.DateLocale == "" {
		cfg.DateLocale = "en_US"
	}

	cfg.MailTransport = strings.ToLower(os.Getenv("MAIL_TRANSPORT"))
	if cfg.MailTransport == "" {
		cfg.MailTransport = TransportSMTP
	}
	switch cfg.MailTransport {
	case TransportSMTP, TransportResend, TransportPreview:
	default:
		return nil, fmt.Errorf("invalid MAIL_TRANSPORT %q, want smtp, resend or preview", cfg.MailTransport)
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPHost == "" {
		cfg.SMTPHost = "localhost"
	}

	portStr := os.Getenv("SMTP_PORT")
	if portStr == "" {
		portStr = "25"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPPort = port

	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	if cfg.MailTransport == TransportResend && cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY is not set but MAIL_TRANSPORT is resend")
	}

	cfg.CronSpecDaily = os.Getenv("CRON_SPEC_DAILY_RUN")
	if cfg.CronSpecDaily == "" {
		cfg.CronSpecDaily = "0 8 * * *" // Default: 8:00 AM daily
	}

	return cfg, nil
}
