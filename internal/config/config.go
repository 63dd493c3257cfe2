package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	Backend BackendConfig
	Email   EmailConfig
	Logger  LoggerConfig
}

// BackendConfig holds the remote backend endpoint and table mapping.
type BackendConfig struct {
	URL                   string
	APIKey                string
	RequestTimeoutSeconds int
	Tables                TableConfig
}

// TableConfig maps logical table names to entities.
type TableConfig struct {
	Users        string
	Tickets      string
	Resources    string
	Transactions string
}

// EmailConfig holds the transactional-email API settings.
type EmailConfig struct {
	APIURL string
	APIKey string
	From   string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	backendURL := os.Getenv("HARBOR_BACKEND_URL")
	if backendURL == "" {
		return nil, fmt.Errorf("HARBOR_BACKEND_URL is required")
	}

	cfg := &Config{
		Backend: BackendConfig{
			URL:                   backendURL,
			APIKey:                os.Getenv("HARBOR_BACKEND_KEY"),
			RequestTimeoutSeconds: getEnvAsInt("HARBOR_REQUEST_TIMEOUT_SECONDS", 30),
			Tables: TableConfig{
				Users:        getEnv("HARBOR_USERS_TABLE", "users"),
				Tickets:      getEnv("HARBOR_TICKETS_TABLE", "tickets"),
				Resources:    getEnv("HARBOR_RESOURCES_TABLE", "resources"),
				Transactions: getEnv("HARBOR_TRANSACTIONS_TABLE", "transactions"),
			},
		},
		Email: EmailConfig{
			APIURL: getEnv("EMAIL_API_URL", "https://api.resend.com"),
			APIKey: os.Getenv("EMAIL_API_KEY"),
			From:   getEnv("EMAIL_FROM", "Harbor Group <notifications@harborgroup.example>"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured transport timeout duration.
func (b BackendConfig) RequestTimeout() time.Duration {
	if b.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(b.RequestTimeoutSeconds) * time.Second
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
