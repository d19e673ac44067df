package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the backend configuration.
type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"*"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
		PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN,required"`
		APIURL   string `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
		// 0 disables the auth_date expiration check.
		InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
	}

	Payments struct {
		// How long an X-Idempotency-Key replays its invoice. Invoices themselves are kept until paid.
		InvoiceTTL     time.Duration `env:"INVOICE_TTL" envDefault:"24h"`
		InvoicesPerMin int           `env:"INVOICE_RATE_PER_MIN" envDefault:"10"`
		Stream         string        `env:"PAYMENT_STREAM" envDefault:"bot:events"`
		ConsumerGroup  string        `env:"PAYMENT_CONSUMER_GROUP" envDefault:"telewall_payments"`
		ConsumerName   string        `env:"PAYMENT_CONSUMER_NAME" envDefault:"telewall_worker_1"`
	}
}

// ClientConfig configures the headless Mini App client.
type ClientConfig struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	APIURL      string        `env:"TELEWALL_API_URL" envDefault:"http://localhost:8080/api"`
	HTTPTimeout time.Duration `env:"TELEWALL_HTTP_TIMEOUT" envDefault:"10s"`
	MaxRetries  int           `env:"TELEWALL_MAX_RETRIES" envDefault:"3"`

	// Headless=false behaves as if the app runs outside Telegram.
	Headless       bool   `env:"TELEWALL_HEADLESS" envDefault:"true"`
	BotToken       string `env:"TELEWALL_BOT_TOKEN"`
	TelegramID     int64  `env:"TELEWALL_TELEGRAM_ID" envDefault:"0"`
	Username       string `env:"TELEWALL_USERNAME"`
	FirstName      string `env:"TELEWALL_FIRST_NAME"`
	InvoiceOutcome string `env:"TELEWALL_INVOICE_OUTCOME" envDefault:"paid"`
}

// Load reads the backend configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	// .env is optional; in production variables come from the environment.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Payments.InvoicesPerMin <= 0 {
		return nil, fmt.Errorf("INVOICE_RATE_PER_MIN must be positive, got %d", cfg.Payments.InvoicesPerMin)
	}
	return cfg, nil
}

// LoadClient reads the client configuration.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("TELEWALL_MAX_RETRIES must not be negative, got %d", cfg.MaxRetries)
	}
	return cfg, nil
}
