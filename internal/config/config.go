package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Email delivery
	EmailProvider     string // "sendgrid", "ses", or "stub"
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string

	// Lead intake policy
	AllowedOrigins  []string
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Tenant widget configuration
	TenantConfigDir string

	// Shared state (optional; enables Redis-backed tenant config and rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// AWS (used by the SES sender and local endpoint overrides)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    strings.TrimSpace(getEnv("SENDGRID_API_KEY", "")),
		SendGridFromEmail: strings.TrimSpace(getEnv("FROM_EMAIL", "")),
		SendGridFromName:  getEnv("FROM_NAME", "Fence Quote"),
		SESFromEmail:      strings.TrimSpace(getEnv("SES_FROM_EMAIL", "")),
		SESFromName:       getEnv("SES_FROM_NAME", "Fence Quote"),

		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "")),
		RateLimitMax:    getEnvAsInt("LEAD_RATE_LIMIT_MAX", 8),
		RateLimitWindow: getEnvAsDuration("LEAD_RATE_LIMIT_WINDOW", 10*time.Minute),

		TenantConfigDir: getEnv("TENANT_CONFIG_DIR", "config"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// FromEmail returns the verified sender address for the active provider.
func (c *Config) FromEmail() string {
	if c.EmailProvider == "ses" && c.SESFromEmail != "" {
		return c.SESFromEmail
	}
	return c.SendGridFromEmail
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
