package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"outlay/internal/core"
	"outlay/internal/crypto"
)

type Config struct {
	// Database
	DBPath string

	// Note encryption
	EncryptNotes bool
	Key          string

	// Defaults applied when a command does not say otherwise
	Currency string
	PageSize int

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath: getEnv("OUTLAY_DB_PATH", "./data/outlay.db"),

		EncryptNotes: getEnvBool("OUTLAY_ENCRYPT_NOTES", false),
		Key:          getEnv("OUTLAY_KEY", ""),

		Currency: getEnv("OUTLAY_CURRENCY", "INR"),
		PageSize: getEnvInt("OUTLAY_PAGE_SIZE", 20),

		LogLevel: getEnv("OUTLAY_LOG_LEVEL", "info"),
	}
}

// Validate checks the whole configuration and reports every problem at
// once, wrapped as a configuration error.
func (c *Config) Validate() error {
	var problems []string

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.EncryptNotes && c.Key == "" {
		problems = append(problems, "OUTLAY_KEY is required when OUTLAY_ENCRYPT_NOTES is on")
	}
	if c.Key != "" {
		raw, err := base64.URLEncoding.DecodeString(c.Key)
		switch {
		case err != nil:
			problems = append(problems, "OUTLAY_KEY must be url-safe base64 (generate one with 'outlay keygen')")
		case len(raw) != crypto.KeySize:
			problems = append(problems, fmt.Sprintf("OUTLAY_KEY must decode to %d bytes, got %d", crypto.KeySize, len(raw)))
		}
	}

	if _, err := core.NormalizeCurrency(c.Currency); err != nil {
		problems = append(problems, fmt.Sprintf("invalid currency '%s': must be a 3-letter code", c.Currency))
	}

	if c.PageSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid page size %d: must be at least 1", c.PageSize))
	} else if c.PageSize > 500 {
		problems = append(problems, fmt.Sprintf("invalid page size %d: must be at most 500", c.PageSize))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if c.LogLevel == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n- %s", core.ErrConfiguration, strings.Join(problems, "\n- "))
	}
	return nil
}

// Crypto builds the note encryption settings for this configuration.
func (c *Config) Crypto() crypto.Config {
	return crypto.Config{Enabled: c.EncryptNotes, Key: c.Key}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
