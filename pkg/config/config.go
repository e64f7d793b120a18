// Package config provides configuration loading and validation.
package config

import (
	"time"

	"github.com/giftgram/giftgram/pkg/logger"
	"github.com/giftgram/giftgram/pkg/redis"
)

// Config holds runtime configuration for the Giftgram services. Values are
// supplied in full at startup; nothing is inferred or patched at runtime, and
// a partial value (e.g. a webhook URL without a scheme) fails validation.
type Config struct {
	AppEnv string `mapstructure:"-" validate:"required,oneof=development staging production"`

	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Bot      BotConfig      `mapstructure:"bot"`
	Redis    redis.Config   `mapstructure:"redis"`
	Logger   logger.Config  `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

// IsProduction reports whether verbose error detail must be suppressed.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ServerConfig configures the gateway HTTP listener.
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// CORSOrigin is only honored outside production, where the frontend is
	// served from a separate dev origin.
	CORSOrigin string `mapstructure:"cors_origin" validate:"omitempty,url"`
}

// DatabaseConfig configures the Postgres pool.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"omitempty,gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"omitempty,gt=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// BotConfig configures the Telegram consumer.
type BotConfig struct {
	Token string `mapstructure:"token" validate:"required"`
	// Mode selects between long polling and webhook delivery.
	Mode string `mapstructure:"mode" validate:"required,oneof=polling webhook"`
	// WebhookURL must be a complete public URL when mode is webhook.
	WebhookURL  string        `mapstructure:"webhook_url" validate:"required_if=Mode webhook,omitempty,url"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	// GatewayURL is the base URL of the gateway API the bot talks to.
	GatewayURL string `mapstructure:"gateway_url" validate:"required,url"`
	// ClientTimeout bounds each gateway call made on behalf of a user event.
	ClientTimeout time.Duration `mapstructure:"client_timeout"`
	// DedupTTL is how long processed update IDs are remembered.
	DedupTTL time.Duration `mapstructure:"dedup_ttl"`
}

// SentryConfig configures error reporting.
type SentryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn" validate:"required_if=Enabled true,omitempty,url"`
}
