package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	JWTSecret       string
	TokenTTL        time.Duration
	BcryptCost      int
	ShutdownTimeout time.Duration
	OrderSequence   string
	AdminLogins     []string
	LogLevel        string

	WhatsAppAPIURL        string
	WhatsAppPhoneNumberID string
	WhatsAppToken         string
	WhatsAppVerifyToken   string

	MessengerWorkers    int
	MessengerQueueSize  int
	MessengerAttempts   int
	MessengerRetryDelay time.Duration

	SubscriberBuffer int

	KafkaBrokers []string
	KafkaTopic   string
}

const (
	defaultRunAddress          = ":8080"
	defaultJWTSecret           = "change-me-in-production"
	defaultTokenTTL            = 24 * time.Hour
	defaultShutdownTimeout     = 10 * time.Second
	defaultOrderSequence       = "orderNumber"
	defaultLogLevel            = "info"
	defaultWhatsAppAPIURL      = "https://graph.facebook.com/v19.0"
	defaultMessengerWorkers    = 4
	defaultMessengerQueueSize  = 256
	defaultMessengerAttempts   = 3
	defaultMessengerRetryDelay = 500 * time.Millisecond
	defaultSubscriberBuffer    = 16
	defaultKafkaTopic          = "orderflow.order-events"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		JWTSecret:             getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:              getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		BcryptCost:            getInt(lookup, "BCRYPT_COST", 0),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		OrderSequence:         getString(lookup, "ORDER_SEQUENCE", defaultOrderSequence),
		LogLevel:              getString(lookup, "LOG_LEVEL", defaultLogLevel),
		WhatsAppAPIURL:        getString(lookup, "WHATSAPP_API_URL", defaultWhatsAppAPIURL),
		WhatsAppPhoneNumberID: getString(lookup, "WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppToken:         getString(lookup, "WHATSAPP_TOKEN", ""),
		WhatsAppVerifyToken:   getString(lookup, "WHATSAPP_VERIFY_TOKEN", ""),
		MessengerWorkers:      getInt(lookup, "MESSENGER_WORKERS", defaultMessengerWorkers),
		MessengerQueueSize:    getInt(lookup, "MESSENGER_QUEUE_SIZE", defaultMessengerQueueSize),
		MessengerAttempts:     getInt(lookup, "MESSENGER_ATTEMPTS", defaultMessengerAttempts),
		MessengerRetryDelay:   getDuration(lookup, "MESSENGER_RETRY_DELAY", defaultMessengerRetryDelay),
		SubscriberBuffer:      getInt(lookup, "SUBSCRIBER_BUFFER", defaultSubscriberBuffer),
		KafkaTopic:            getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
	}

	fs := flag.NewFlagSet("orderflow", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		tokenTTLStr        = cfg.TokenTTL.String()
		retryDelayStr      = cfg.MessengerRetryDelay.String()
		adminsStr          = getString(lookup, "ADMIN_LOGINS", "")
		brokersStr         = getString(lookup, "KAFKA_BROKERS", "")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.OrderSequence, "order-sequence", cfg.OrderSequence, "Name of the order number counter")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Minimum log level: debug, info, warn or error")
	fs.StringVar(&adminsStr, "admins", adminsStr, "Comma separated logins granted the admin role")
	fs.StringVar(&cfg.WhatsAppAPIURL, "whatsapp-url", cfg.WhatsAppAPIURL, "WhatsApp Cloud API base URL")
	fs.IntVar(&cfg.MessengerWorkers, "messenger-workers", cfg.MessengerWorkers, "Number of outbound message workers")
	fs.IntVar(&cfg.MessengerQueueSize, "messenger-queue", cfg.MessengerQueueSize, "Outbound message queue capacity")
	fs.IntVar(&cfg.MessengerAttempts, "messenger-attempts", cfg.MessengerAttempts, "Delivery attempts per outbound message")
	fs.StringVar(&retryDelayStr, "messenger-retry-delay", retryDelayStr, "Base delay between delivery attempts")
	fs.IntVar(&cfg.SubscriberBuffer, "subscriber-buffer", cfg.SubscriberBuffer, "Buffered events per real-time subscriber")
	fs.StringVar(&brokersStr, "kafka-brokers", brokersStr, "Comma separated Kafka brokers, empty disables the event stream")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for order events")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.MessengerRetryDelay, err = time.ParseDuration(retryDelayStr); err != nil {
		return nil, fmt.Errorf("invalid messenger retry delay: %w", err)
	}

	cfg.AdminLogins = splitList(adminsStr)
	cfg.KafkaBrokers = splitList(brokersStr)

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.MessengerWorkers <= 0 {
		cfg.MessengerWorkers = defaultMessengerWorkers
	}

	if cfg.MessengerQueueSize <= 0 {
		cfg.MessengerQueueSize = defaultMessengerQueueSize
	}

	if cfg.MessengerAttempts <= 0 {
		cfg.MessengerAttempts = defaultMessengerAttempts
	}

	if cfg.MessengerRetryDelay <= 0 {
		cfg.MessengerRetryDelay = defaultMessengerRetryDelay
	}

	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = defaultSubscriberBuffer
	}

	if strings.TrimSpace(cfg.OrderSequence) == "" {
		cfg.OrderSequence = defaultOrderSequence
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// IsAdmin reports whether login was granted the admin role.
func (c *Config) IsAdmin(login string) bool {
	for _, admin := range c.AdminLogins {
		if admin == login {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
