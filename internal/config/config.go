// Package config manages application configuration
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"

	// Database
	DatabaseURL string

	// Security
	SecretKey string // For JWT signing

	// Session settings
	SessionDuration time.Duration // token time-to-live handed to the session manager
	SessionPoll     time.Duration // liveness poll interval backing the expiration timer

	// Simulated gateway latencies
	PayLatency      time.Duration
	RechargeLatency time.Duration
	TopUpLatency    time.Duration
	RedeemLatency   time.Duration

	// Synthetic failure rate for gateway payments, 0.0-1.0
	PayFailureRate float64
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Port:            getEnv("PAYWAVE_PORT", "8080"),
		Environment:     getEnv("PAYWAVE_ENV", "development"),
		DatabaseURL:     getEnv("PAYWAVE_DATABASE_URL", "paywave.db"),
		SecretKey:       getEnv("PAYWAVE_SECRET_KEY", "dev-secret-key-change-in-production"),
		SessionDuration: getDurationEnv("PAYWAVE_SESSION_DURATION", 24*time.Hour),
		SessionPoll:     getDurationEnv("PAYWAVE_SESSION_POLL", 5*time.Second),
		PayLatency:      getDurationEnv("PAYWAVE_PAY_LATENCY", 1500*time.Millisecond),
		RechargeLatency: getDurationEnv("PAYWAVE_RECHARGE_LATENCY", 1200*time.Millisecond),
		TopUpLatency:    getDurationEnv("PAYWAVE_TOPUP_LATENCY", time.Second),
		RedeemLatency:   getDurationEnv("PAYWAVE_REDEEM_LATENCY", 800*time.Millisecond),
		PayFailureRate:  getFloatEnv("PAYWAVE_PAY_FAILURE_RATE", 0),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
