// Package config loads application configuration from the environment.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is constructed once at the
// composition root and passed to the components that need it.
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string

	// Price feed
	CoinGeckoBaseURL  string
	PricePollInterval time.Duration
}

// Load reads configuration from environment variables, loading a .env file
// first when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "cryptofolio"),
		DBPassword: getEnv("DB_PASSWORD", "cryptofolio"),
		DBName:     getEnv("DB_NAME", "cryptofolio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3"),
	}

	pollStr := getEnv("PRICE_POLL_INTERVAL", "60s")
	poll, err := time.ParseDuration(pollStr)
	if err != nil {
		log.Printf("Warning: invalid PRICE_POLL_INTERVAL value %q, falling back to 60s\n", pollStr)
		poll = 60 * time.Second
	}
	cfg.PricePollInterval = poll

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
