package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the GameHaven server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	Environment   string
	SentryDSN     string
	AdminPassword string
	SessionToken  string
	LLMEndpoint   string
	LLMAPIKey     string
	LLMModel      string
	DealsEndpoint string
	DealsInterval time.Duration
	RecaptchaKey  string
	RateLimit     RateLimitConfig
	MaxOpenConns  int
	MaxIdleConns  int
	ShutdownGrace time.Duration
}

// RateLimitConfig tunes the public-endpoint token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultDBPath          = "./data/gamehaven.db"
	defaultServerPort      = 8080
	defaultLogLevel        = "info"
	defaultEnvironment     = "development"
	defaultDealsEndpoint   = "https://www.cheapshark.com/api/1.0/deals"
	defaultDealsInterval   = 6 * time.Hour
	defaultMaxOpenConns    = 5
	defaultMaxIdleConns    = 2
	defaultShutdownGrace   = 10 * time.Second
	defaultRateLimitPerSec = 2.0
	defaultRateLimitBurst  = 5
	defaultRateLimitClient = 10 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		Environment:   getEnv("ENV", defaultEnvironment),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionToken:  os.Getenv("SESSION_TOKEN"),
		LLMEndpoint:   os.Getenv("LLM_ENDPOINT"),
		LLMAPIKey:     os.Getenv("LLM_API_KEY"),
		LLMModel:      os.Getenv("LLM_MODEL"),
		DealsEndpoint: getEnv("DEALS_ENDPOINT", defaultDealsEndpoint),
		DealsInterval: defaultDealsInterval,
		RecaptchaKey:  os.Getenv("RECAPTCHA_SECRET"),
		RateLimit: RateLimitConfig{
			RequestsPerSecond: defaultRateLimitPerSec,
			Burst:             defaultRateLimitBurst,
			ClientTTL:         defaultRateLimitClient,
		},
		MaxOpenConns:  defaultMaxOpenConns,
		MaxIdleConns:  defaultMaxIdleConns,
		ShutdownGrace: defaultShutdownGrace,
	}

	if cfg.AdminPassword == "" {
		return nil, eris.New("ADMIN_PASSWORD is required")
	}

	if cfg.SessionToken == "" {
		return nil, eris.New("SESSION_TOKEN is required")
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	if raw := os.Getenv("DEALS_SYNC_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid DEALS_SYNC_INTERVAL value: %s", raw)
		}
		cfg.DealsInterval = interval
	}

	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		conns, err := strconv.Atoi(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid DB_MAX_OPEN_CONNS value: %s", raw)
		}
		cfg.MaxOpenConns = conns
	}

	if raw := os.Getenv("RATE_LIMIT_PER_SECOND"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid RATE_LIMIT_PER_SECOND value: %s", raw)
		}
		cfg.RateLimit.RequestsPerSecond = rate
	}

	if raw := os.Getenv("RATE_LIMIT_BURST"); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", raw)
		}
		cfg.RateLimit.Burst = burst
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
