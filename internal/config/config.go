package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPaystackBaseURL      = "https://api.paystack.co"
	defaultPaystackDashboardURL = "https://dashboard.paystack.com"
)

// Config holds everything the gateway and UI need at startup
type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string
	Location *time.Location

	// Paystack
	PaystackSecretKey    string
	PaystackBaseURL      string
	PaystackDashboardURL string
	UpstreamTimeout      time.Duration
	BulkheadSize         int

	// UI
	GatewayURL string
	RedisURL   string
	SearchTTL  time.Duration

	// Rate limiting
	RateLimitPerSecond float64
	RateLimitBurst     int
	TrustedProxies     []string
}

// Load reads the environment, falling back to a .env file in development
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	port := getEnv("PORT", "8080")

	cfg := &Config{
		Port:     port,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Location: parseLocation(getEnv("TIMEZONE", "Local")),

		PaystackSecretKey:    strings.TrimSpace(getEnv("PAYSTACK_SECRET_KEY", "")),
		PaystackBaseURL:      strings.TrimSuffix(getEnv("PAYSTACK_BASE_URL", defaultPaystackBaseURL), "/"),
		PaystackDashboardURL: strings.TrimSuffix(getEnv("PAYSTACK_DASHBOARD_URL", defaultPaystackDashboardURL), "/"),
		UpstreamTimeout:      parseDuration(getEnv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),
		BulkheadSize:         parseInt(getEnv("BULKHEAD_SIZE", "10"), 10),

		GatewayURL: strings.TrimSuffix(getEnv("GATEWAY_URL", "http://localhost:"+port), "/"),
		RedisURL:   getEnv("REDIS_URL", ""),
		SearchTTL:  parseDuration(getEnv("SEARCH_TTL", "720h"), 30*24*time.Hour),

		RateLimitPerSecond: parseFloat(getEnv("RATE_LIMIT_PER_SECOND", "10"), 10),
		RateLimitBurst:     parseInt(getEnv("RATE_LIMIT_BURST", "20"), 20),
		TrustedProxies:     parseList(getEnv("TRUSTED_PROXIES", "")),
	}

	return cfg
}

// IsProduction reports whether gin should run in release mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// parseList splits a comma separated value; empty yields nil
func parseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseLocation(name string) *time.Location {
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithField("timezone", name).Warn("Unknown timezone, using local time")
		return time.Local
	}
	return loc
}
