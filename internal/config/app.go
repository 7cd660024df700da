// Package config aggregates process settings from the environment and the
// optional security YAML file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"contact-pipeline/internal/domain/entity"
	"contact-pipeline/internal/infra/queue"
	"contact-pipeline/internal/infra/summarizer"
	"contact-pipeline/internal/usecase/notify"
	"contact-pipeline/pkg/config"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Summary transports.
const (
	QueueInline = "inline"
	QueueRedis  = "redis"
)

// Email providers. An empty provider disables the email channel.
const (
	EmailSendGrid = "sendgrid"
	EmailSES      = "ses"
)

// AppConfig is everything cmd/api, cmd/worker and cmd/contactctl read from
// the environment.
type AppConfig struct {
	HTTPAddr    string
	Version     string
	DatabaseURL string
	StoreType   string

	SummarizerType      string
	SummarizerAPIKey    string
	SummarizerModel     string
	SummarizerMaxTokens int
	SummarizerTimeout   time.Duration
	SummaryTimeout      time.Duration
	SummaryQueue        string
	RedisURL            string
	QueueKey            string
	NotifyMaxConcurrent int

	SlackEnabled      bool
	SlackWebhookURL   string
	DiscordEnabled    bool
	DiscordWebhookURL string
	WebhookTimeout    time.Duration

	EmailProvider  string
	EmailTo        string
	EmailFrom      string
	EmailFromName  string
	SendGridAPIKey string
	AWSRegion      string

	ContactEmail string
	ContactPhone string

	RateLimitRPS   float64
	RateLimitBurst int

	JWTSecret          string
	AdminUser          string
	AdminPassword      string
	SecurityConfigPath string
}

// LoadAppConfig reads AppConfig from the environment and applies the
// derived defaults. It does not validate; call Validate.
func LoadAppConfig() *AppConfig {
	c := &AppConfig{
		HTTPAddr:    config.GetEnvString("HTTP_ADDR", ":8080"),
		Version:     config.GetEnvString("APP_VERSION", "dev"),
		DatabaseURL: config.GetEnvString("DATABASE_URL", ""),

		SummarizerModel:     config.GetEnvString("SUMMARIZER_MODEL", ""),
		SummarizerMaxTokens: config.GetEnvInt("SUMMARIZER_MAX_TOKENS", 256),
		SummarizerTimeout:   config.GetEnvDuration("SUMMARIZER_TIMEOUT", 20*time.Second),
		SummaryTimeout:      config.GetEnvDuration("SUMMARY_TIMEOUT", 30*time.Second),
		SummaryQueue:        strings.ToLower(config.GetEnvString("SUMMARY_QUEUE", QueueInline)),
		RedisURL:            config.GetEnvString("REDIS_URL", ""),
		QueueKey:            config.GetEnvString("SUMMARY_QUEUE_KEY", queue.DefaultKey),
		NotifyMaxConcurrent: config.GetEnvInt("NOTIFY_MAX_CONCURRENT", 10),

		SlackEnabled:      config.GetEnvBool("SLACK_ENABLED", false),
		SlackWebhookURL:   config.GetEnvString("SLACK_WEBHOOK_URL", ""),
		DiscordEnabled:    config.GetEnvBool("DISCORD_ENABLED", false),
		DiscordWebhookURL: config.GetEnvString("DISCORD_WEBHOOK_URL", ""),
		WebhookTimeout:    config.GetEnvDuration("WEBHOOK_TIMEOUT", 10*time.Second),

		EmailProvider:  strings.ToLower(config.GetEnvString("EMAIL_PROVIDER", "")),
		EmailTo:        config.GetEnvString("EMAIL_TO", ""),
		EmailFrom:      config.GetEnvString("EMAIL_FROM", ""),
		EmailFromName:  config.GetEnvString("EMAIL_FROM_NAME", "Contact Form"),
		SendGridAPIKey: config.GetEnvString("SENDGRID_API_KEY", ""),
		AWSRegion:      config.GetEnvString("AWS_REGION", ""),

		ContactEmail: config.GetEnvString("CONTACT_EMAIL", ""),
		ContactPhone: config.GetEnvString("CONTACT_PHONE", ""),

		RateLimitRPS:   config.GetEnvFloat("CONTACT_RATE_LIMIT_RPS", 0.2),
		RateLimitBurst: config.GetEnvInt("CONTACT_RATE_LIMIT_BURST", 5),

		JWTSecret:          config.GetEnvString("JWT_SECRET", ""),
		AdminUser:          config.GetEnvString("ADMIN_USER", ""),
		AdminPassword:      config.GetEnvString("ADMIN_USER_PASSWORD", ""),
		SecurityConfigPath: config.GetEnvString("SECURITY_CONFIG_PATH", ""),
	}

	defaultStore := StoreMemory
	if c.DatabaseURL != "" {
		defaultStore = StorePostgres
	}
	c.StoreType = strings.ToLower(config.GetEnvString("STORE_TYPE", defaultStore))

	c.SummarizerType = strings.ToLower(config.GetEnvString("SUMMARIZER_TYPE", defaultSummarizerType()))
	c.SummarizerAPIKey = summarizerAPIKey(c.SummarizerType)

	return c
}

func defaultSummarizerType() string {
	if config.GetEnvString("GEMINI_API_KEY", "") != "" {
		return summarizer.TypeGemini
	}
	return summarizer.TypeNoOp
}

func summarizerAPIKey(typ string) string {
	switch typ {
	case summarizer.TypeGemini:
		return config.GetEnvString("GEMINI_API_KEY", "")
	case summarizer.TypeClaude:
		return config.GetEnvString("ANTHROPIC_API_KEY", "")
	case summarizer.TypeOpenAI:
		return config.GetEnvString("OPENAI_API_KEY", "")
	default:
		return ""
	}
}

// Validate checks the settings every process needs. Admin credentials are
// checked separately by the auth package because only cmd/api needs them.
func (c *AppConfig) Validate() error {
	var errs []error

	switch c.StoreType {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("STORE_TYPE=postgres requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_TYPE %q", c.StoreType))
	}

	if err := c.SummarizerConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := config.ValidateDurationRange(c.SummaryTimeout, time.Second, 10*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("SUMMARY_TIMEOUT: %w", err))
	}

	switch c.SummaryQueue {
	case QueueInline:
	case QueueRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("SUMMARY_QUEUE=redis requires REDIS_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SUMMARY_QUEUE %q", c.SummaryQueue))
	}

	if err := config.ValidateIntRange(c.NotifyMaxConcurrent, 1, 100); err != nil {
		errs = append(errs, fmt.Errorf("NOTIFY_MAX_CONCURRENT: %w", err))
	}
	if c.SlackEnabled && c.SlackWebhookURL == "" {
		errs = append(errs, errors.New("SLACK_ENABLED requires SLACK_WEBHOOK_URL"))
	}
	if c.DiscordEnabled && c.DiscordWebhookURL == "" {
		errs = append(errs, errors.New("DISCORD_ENABLED requires DISCORD_WEBHOOK_URL"))
	}

	switch c.EmailProvider {
	case "":
	case EmailSendGrid, EmailSES:
		if c.EmailTo == "" || c.EmailFrom == "" {
			errs = append(errs, fmt.Errorf("EMAIL_PROVIDER=%s requires EMAIL_TO and EMAIL_FROM", c.EmailProvider))
		}
		if c.EmailProvider == EmailSendGrid && c.SendGridAPIKey == "" {
			errs = append(errs, errors.New("EMAIL_PROVIDER=sendgrid requires SENDGRID_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider))
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("CONTACT_RATE_LIMIT_RPS and CONTACT_RATE_LIMIT_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// SummarizerConfig returns the provider settings.
func (c *AppConfig) SummarizerConfig() summarizer.Config {
	return summarizer.Config{
		Type:      c.SummarizerType,
		APIKey:    c.SummarizerAPIKey,
		Model:     c.SummarizerModel,
		MaxTokens: c.SummarizerMaxTokens,
		Timeout:   c.SummarizerTimeout,
	}
}

// DispatchConfig returns the in-process dispatcher bounds.
func (c *AppConfig) DispatchConfig() notify.Config {
	cfg := notify.DefaultConfig()
	cfg.MaxConcurrent = c.NotifyMaxConcurrent
	cfg.Timeout = c.SummaryTimeout
	return cfg
}

// ContactDetails returns the public contact information.
func (c *AppConfig) ContactDetails() entity.ContactDetails {
	return entity.ContactDetails{Email: c.ContactEmail, Phone: c.ContactPhone}
}
