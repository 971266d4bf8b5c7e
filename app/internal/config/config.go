// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP     HTTPConfig
	Catalog  CatalogConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
	Cart     CartConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	SMTP     SMTPConfig
	LogLevel string
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	MaxBodyBytes    int64
}

type CatalogConfig struct {
	Driver string // file, mysql or postgres
	Path   string
	DSN    string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	BackendURL    string
}

type CheckoutConfig struct {
	Currency       string
	SuccessURL     string
	CancelURL      string
	RequestTimeout time.Duration
}

type CartConfig struct {
	TokenSecret string
	TokenTTL    time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	EventTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SMTPConfig struct {
	Addr string
	From string
}

const (
	CatalogDriverFile     = "file"
	CatalogDriverMySQL    = "mysql"
	CatalogDriverPostgres = "postgres"
)

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	httpCfg, err := loadHTTPConfig()
	if err != nil {
		return nil, err
	}

	checkoutTimeout, err := parseDurationEnv("CHECKOUT_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CHECKOUT_TIMEOUT: %w", err)
	}

	tokenTTL, err := parseDurationEnv("CART_TOKEN_TTL", 72*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("CART_TOKEN_TTL: %w", err)
	}

	redisCfg, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTP: httpCfg,
		Catalog: CatalogConfig{
			Driver: strings.ToLower(getenv("CATALOG_DRIVER", CatalogDriverFile)),
			Path:   getenv("CATALOG_PATH", "products.json"),
			DSN:    os.Getenv("CATALOG_DSN"),
		},
		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			BackendURL:    os.Getenv("STRIPE_API_BASE"),
		},
		Checkout: CheckoutConfig{
			Currency:       strings.ToLower(getenv("CHECKOUT_CURRENCY", "usd")),
			SuccessURL:     getenv("CHECKOUT_SUCCESS_URL", httpCfg.FrontendURL+"/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:      getenv("CHECKOUT_CANCEL_URL", httpCfg.FrontendURL+"/canceled"),
			RequestTimeout: checkoutTimeout,
		},
		Cart: CartConfig{
			TokenSecret: os.Getenv("CART_TOKEN_SECRET"),
			TokenTTL:    tokenTTL,
		},
		Redis: redisCfg,
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_TOPIC", "payments.completed"),
		},
		SMTP: SMTPConfig{
			Addr: os.Getenv("SMTP_ADDR"),
			From: getenv("SMTP_FROM", "shop@example.com"),
		},
		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	if c.Cart.TokenSecret == "" {
		return fmt.Errorf("CART_TOKEN_SECRET is required")
	}
	switch c.Catalog.Driver {
	case CatalogDriverFile:
	case CatalogDriverMySQL, CatalogDriverPostgres:
		if c.Catalog.DSN == "" {
			return fmt.Errorf("CATALOG_DSN is required for catalog driver %q", c.Catalog.Driver)
		}
	default:
		return fmt.Errorf("unknown CATALOG_DRIVER %q", c.Catalog.Driver)
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func loadHTTPConfig() (HTTPConfig, error) {
	const (
		defaultReadTimeout     = 10 * time.Second
		defaultWriteTimeout    = 30 * time.Second
		defaultIdleTimeout     = 60 * time.Second
		defaultShutdownTimeout = 10 * time.Second
		defaultMaxBodyBytes    = 1 << 20
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		return HTTPConfig{}, fmt.Errorf("HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		return HTTPConfig{}, fmt.Errorf("HTTP_WRITE_TIMEOUT: %w", err)
	}
	idleTimeout, err := parseDurationEnv("HTTP_IDLE_TIMEOUT", defaultIdleTimeout)
	if err != nil {
		return HTTPConfig{}, fmt.Errorf("HTTP_IDLE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		return HTTPConfig{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	maxBody, err := parseIntEnv("HTTP_MAX_BODY_BYTES", defaultMaxBodyBytes)
	if err != nil {
		return HTTPConfig{}, fmt.Errorf("HTTP_MAX_BODY_BYTES: %w", err)
	}

	return HTTPConfig{
		Port:            getenv("PORT", "4242"),
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
		FrontendURL:     strings.TrimRight(getenv("FRONTEND_URL", "http://localhost:5173"), "/"),
		MaxBodyBytes:    int64(maxBody),
	}, nil
}

func loadRedisConfig() (RedisConfig, error) {
	db, err := parseIntEnv("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("REDIS_DB: %w", err)
	}
	ttl, err := parseDurationEnv("WEBHOOK_EVENT_TTL", 72*time.Hour)
	if err != nil {
		return RedisConfig{}, fmt.Errorf("WEBHOOK_EVENT_TTL: %w", err)
	}
	return RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
		EventTTL: ttl,
	}, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}
	return def, nil
}

func parseIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
