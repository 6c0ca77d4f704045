package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Referral     ReferralConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ReferralConfig defines registration and referral parameters. Values are
// fixed at startup and never mutated at runtime.
type ReferralConfig struct {
	MinNameLength   int
	MaxNameLength   int
	MinEmailLength  int
	MaxEmailLength  int
	CodeLength      int
	MaxCodeAttempts int
	Bonus           int64
	InitialPoints   int64
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	bonus := int64(getEnvAsInt("REFERRAL_BONUS", 10))
	if bonus < 0 {
		return nil, fmt.Errorf("invalid REFERRAL_BONUS: must be non-negative, got %d", bonus)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "referral-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Referral: ReferralConfig{
			MinNameLength:   getEnvAsInt("REFERRAL_MIN_NAME_LENGTH", 2),
			MaxNameLength:   getEnvAsInt("REFERRAL_MAX_NAME_LENGTH", 50),
			MinEmailLength:  getEnvAsInt("REFERRAL_MIN_EMAIL_LENGTH", 5),
			MaxEmailLength:  getEnvAsInt("REFERRAL_MAX_EMAIL_LENGTH", 100),
			CodeLength:      getEnvAsInt("REFERRAL_CODE_LENGTH", 6),
			MaxCodeAttempts: getEnvAsInt("REFERRAL_MAX_CODE_ATTEMPTS", 100),
			Bonus:           bonus,
			InitialPoints:   int64(getEnvAsInt("REFERRAL_INITIAL_POINTS", 0)),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
