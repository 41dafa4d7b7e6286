package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	App       *App
	HTTP      *HTTP
	Database  *Database
	Payment   *Payment
	Catalog   *Catalog
	Pickup    *Pickup
	Notifier  *Notifier
	Audit     *Audit
	Kafka     *Kafka
	RateLimit *RateLimit
	Admin     *Admin
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

// Database is optional: orders are kept in memory when DSN is empty.
type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

// Payment holds the webhook credentials. Both WebhookSecret and SigningKey are required.
type Payment struct {
	Provider      string        `env:"PAYMENT_PROVIDER"`
	Currency      string        `env:"PAYMENT_CURRENCY"`
	WebhookSecret string        `env:"PAYMENT_WEBHOOK_SECRET"`
	SigningKey    string        `env:"PAYMENT_SIGNING_KEY"`
	CheckoutURL   string        `env:"PAYMENT_CHECKOUT_URL"`
	LinkKey       string        `env:"PAYMENT_LINK_KEY"`
	LinkTTL       time.Duration `env:"PAYMENT_LINK_TTL"`
}

type Catalog struct {
	Path    string        `env:"CATALOG_PATH"`
	Timeout time.Duration `env:"CATALOG_TIMEOUT"`
}

// Pickup disabled means codes are attached unresolved.
type Pickup struct {
	Enabled      bool          `env:"PICKUP_ENABLED"`
	HostString   string        `env:"PICKUP_API_ADDRESS"`
	ClientID     string        `env:"PICKUP_CLIENT_ID"`
	ClientSecret string        `env:"PICKUP_CLIENT_SECRET"`
	Timeout      time.Duration `env:"PICKUP_TIMEOUT"`
}

// Notifier disabled (or without a token) means paid orders are only logged.
type Notifier struct {
	Enabled        bool          `env:"NOTIFIER_ENABLED"`
	APIAddress     string        `env:"TELEGRAM_API_ADDRESS"`
	BotToken       string        `env:"TELEGRAM_BOT_TOKEN"`
	OperatorChatID string        `env:"EXECUTOR_CHAT_ID"`
	ThreadID       int64         `env:"TEST_THREAD_ID"`
	Timeout        time.Duration `env:"NOTIFIER_TIMEOUT"`
}

// Audit keeps webhook entries in memory unless RedisURL is set.
type Audit struct {
	MaxEntries int    `env:"AUDIT_MAX_ENTRIES"`
	RedisURL   string `env:"AUDIT_REDIS_URL"`
	RedisKey   string `env:"AUDIT_REDIS_KEY"`
}

// Kafka without brokers disables order events.
type Kafka struct {
	Brokers string `env:"KAFKA_BROKERS"`
	Topic   string `env:"KAFKA_TOPIC"`
}

type RateLimit struct {
	Window time.Duration `env:"RATE_LIMIT_WINDOW"`
	Max    int           `env:"RATE_LIMIT_MAX"`
}

// Admin without a token leaves the admin routes unregistered.
type Admin struct {
	Token string `env:"ADMIN_TOKEN"`
}

func NewConfig() (*Config, error) {
	// .env is optional, real environment wins.
	_ = godotenv.Load()

	var app App
	var http HTTP
	var db Database
	var payment Payment
	var catalog Catalog
	var pickup Pickup
	var notifier Notifier
	var audit Audit
	var kafka Kafka
	var rateLimit RateLimit
	var admin Admin

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.StringVar(&catalog.Path, "c", `data/products.json`, "Catalog file (json or yaml)")
	flag.DurationVar(&catalog.Timeout, "catalog-timeout", 2*time.Second, "Catalog read timeout")
	flag.StringVar(&payment.Provider, "payment-provider", "yookassa", "Payment provider name")
	flag.StringVar(&payment.Currency, "payment-currency", "RUB", "Payment currency")
	flag.StringVar(&payment.CheckoutURL, "checkout-url", "http://localhost:5173/checkout", "Payment checkout page")
	flag.DurationVar(&payment.LinkTTL, "payment-link-ttl", 24*time.Hour, "Payment link lifetime")
	flag.BoolVar(&pickup.Enabled, "pickup", false, "Resolve pickup points through CDEK")
	flag.StringVar(&pickup.HostString, "pickup-address", "https://api.cdek.ru", "CDEK API address")
	flag.DurationVar(&pickup.Timeout, "pickup-timeout", 3*time.Second, "CDEK request timeout")
	flag.BoolVar(&notifier.Enabled, "notify", true, "Send Telegram notifications")
	flag.StringVar(&notifier.APIAddress, "telegram-address", "https://api.telegram.org", "Telegram Bot API address")
	flag.DurationVar(&notifier.Timeout, "notify-timeout", 3*time.Second, "Telegram request timeout")
	flag.IntVar(&audit.MaxEntries, "audit-max", 1000, "Webhook audit log capacity")
	flag.StringVar(&audit.RedisKey, "audit-key", "tgshop:webhooks", "Redis key of the webhook audit log")
	flag.StringVar(&kafka.Topic, "kafka-topic", "tgshop.orders", "Kafka topic for order events")
	flag.DurationVar(&rateLimit.Window, "rate-window", time.Minute, "Order rate limit window")
	flag.IntVar(&rateLimit.Max, "rate-max", 5, "Orders per client per window")
	flag.Parse()

	for name, target := range map[string]any{
		"app":        &app,
		"http":       &http,
		"database":   &db,
		"payment":    &payment,
		"catalog":    &catalog,
		"pickup":     &pickup,
		"notifier":   &notifier,
		"audit":      &audit,
		"kafka":      &kafka,
		"rate limit": &rateLimit,
		"admin":      &admin,
	} {
		if err := env.Parse(target); err != nil {
			return nil, fmt.Errorf("error parsing %s config: %w", name, err)
		}
	}

	config := Config{
		App:       &app,
		HTTP:      &http,
		Database:  &db,
		Payment:   &payment,
		Catalog:   &catalog,
		Pickup:    &pickup,
		Notifier:  &notifier,
		Audit:     &audit,
		Kafka:     &kafka,
		RateLimit: &rateLimit,
		Admin:     &admin,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Payment.WebhookSecret == "" {
		return errors.New("PAYMENT_WEBHOOK_SECRET is required")
	}
	if c.Payment.SigningKey == "" {
		return errors.New("PAYMENT_SIGNING_KEY is required")
	}
	if c.Pickup.Enabled && (c.Pickup.ClientID == "" || c.Pickup.ClientSecret == "") {
		return errors.New("PICKUP_CLIENT_ID and PICKUP_CLIENT_SECRET are required when pickup is enabled")
	}
	if c.Audit.MaxEntries <= 0 {
		return fmt.Errorf("audit log capacity must be positive, got %d", c.Audit.MaxEntries)
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit window and max must be positive")
	}
	return nil
}
