// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	Env              string
	TfLAppID         string
	TfLAppKey        string
	Timezone         string
	HTTPTimeout      time.Duration
	DestinationsFile string
	StopPointCache   string
	RankCacheTTL     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Values in envFile are applied first but never override the real environment;
// a missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	return &Config{
		Port:             getEnv("PORT", "3000"),
		Env:              getEnv("ENV", "development"),
		TfLAppID:         getEnv("TFL_API_APP_ID", ""),
		TfLAppKey:        getEnv("TFL_API_APP_KEY", ""),
		Timezone:         getEnv("TIMEZONE", "Europe/London"),
		HTTPTimeout:      getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
		DestinationsFile: getEnv("DESTINATIONS_FILE", "destinations.yaml"),
		StopPointCache:   getEnv("STOP_POINT_CACHE_FILE", "tfl_stop_points.cache"),
		RankCacheTTL:     getDurationEnv("RANK_CACHE_SECONDS", 0) * time.Second,
	}, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location returns the timezone arrival times are reported in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.TfLAppKey == "" {
		return errors.New("TFL_API_APP_KEY is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.RankCacheTTL < 0 {
		return errors.New("RANK_CACHE_SECONDS must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds)
		}
	}
	return time.Duration(defaultSeconds)
}
