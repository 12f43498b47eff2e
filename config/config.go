package config

import (
	stderrors "errors"
	"fmt"
	"net/url"
	"time"

	"sjsage522/offerwatch/pkg/errors"

	"github.com/kelseyhightower/envconfig"
)

// Notification channels
const (
	NotifierTelegram = "telegram"
	NotifierRedis    = "redis"
)

// Snapshot store drivers
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	// Listing page
	ScrapeURL         string `envconfig:"SCRAPE_URL"`
	FetchBlockSeconds int    `envconfig:"FETCH_BLOCK_SECONDS" default:"500"`

	// Telegram configuration
	TelegramToken  string `envconfig:"TG_BOT_TOKEN"`
	TelegramChatID string `envconfig:"TG_CHAT_ID"`
	TelegramAPIURL string `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`

	// Redis configuration
	RedisAddr            string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB              int    `envconfig:"REDIS_DB" default:"0"`
	RedisSnapshotKey     string `envconfig:"REDIS_SNAPSHOT_KEY" default:"product-snapshots"`
	RedisAlertStream     string `envconfig:"REDIS_ALERT_STREAM" default:"offer-alerts"`
	RedisStreamMaxLength int    `envconfig:"REDIS_STREAM_MAX_LENGTH" default:"1000"`

	// Memcache configuration, empty disables the fetch rate limit guard
	MemcacheAddr string `envconfig:"MEMCACHE_ADDR"`

	Notifier string `envconfig:"NOTIFIER" default:"telegram"`
	Store    string `envconfig:"STORE" default:"redis"`

	// Triggers
	Schedule      string `envconfig:"SNAPSHOT_SCHEDULE" default:"0 8 * * *"`
	HTTPAddr      string `envconfig:"HTTP_ADDR" default:":8080"`
	TriggerAPIKey string `envconfig:"TRIGGER_API_KEY"`

	// Environment
	Environment string `envconfig:"OFFERWATCH_ENVIRONMENT" default:"development"`
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		var parseErr *envconfig.ParseError
		if stderrors.As(err, &parseErr) {
			return nil, errors.NewConfiguration(parseErr.KeyName, fmt.Sprintf("Broken config. Invalid %s env variable", parseErr.KeyName), err)
		}
		return nil, errors.NewConfiguration("", "failed to process env config", err)
	}
	return &cfg, nil
}

// FetchBlockTime is how long fetching is suspended after the source rate limits us
func (c *Config) FetchBlockTime() time.Duration {
	return time.Duration(c.FetchBlockSeconds) * time.Second
}

// Validate fails on the first missing or unusable setting
func (c *Config) Validate() error {
	if c.ScrapeURL == "" {
		return missing("SCRAPE_URL")
	}
	u, err := url.Parse(c.ScrapeURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewConfiguration("SCRAPE_URL", "Broken config. SCRAPE_URL must be an absolute url", err)
	}

	switch c.Notifier {
	case NotifierTelegram:
		if c.TelegramToken == "" {
			return missing("TG_BOT_TOKEN")
		}
		if c.TelegramChatID == "" {
			return missing("TG_CHAT_ID")
		}
	case NotifierRedis:
		if c.RedisAlertStream == "" {
			return missing("REDIS_ALERT_STREAM")
		}
	default:
		return errors.NewConfiguration("NOTIFIER", fmt.Sprintf("Broken config. Unknown notifier %q", c.Notifier), nil)
	}

	switch c.Store {
	case StoreRedis, StoreMemory:
	default:
		return errors.NewConfiguration("STORE", fmt.Sprintf("Broken config. Unknown store %q", c.Store), nil)
	}

	if c.usesRedis() && c.RedisAddr == "" {
		return missing("REDIS_ADDR")
	}

	return nil
}

func (c *Config) usesRedis() bool {
	return c.Store == StoreRedis || c.Notifier == NotifierRedis
}

func missing(variable string) error {
	return errors.NewConfiguration(variable, fmt.Sprintf("Broken config. Setup real %s env variable", variable), nil)
}
