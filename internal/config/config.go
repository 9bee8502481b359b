package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mintly/internal/log"
)

const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Memory backend seed directory (seed_categories.txt)
	SeedDir string

	// Suggestion debounce
	SuggestDelay time.Duration

	// Time zone used for month and day boundaries
	TimeZone string

	LogLevel string

	// Month groupings kept by the aggregation memo
	MemoSize int
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("MINTLY_BACKEND", BackendSQLite),
		SQLiteDBPath: getEnv("MINTLY_DB_PATH", "./data/mintly.db"),
		SeedDir:      getEnv("MINTLY_SEED_DIR", "."),
		SuggestDelay: getEnvDuration("MINTLY_SUGGEST_DELAY", 300*time.Millisecond),
		TimeZone:     getEnv("MINTLY_TIMEZONE", "Local"),
		LogLevel:     getEnv("MINTLY_LOG_LEVEL", "info"),
		MemoSize:     getEnvInt("MINTLY_MEMO_SIZE", 24),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate data backend
	validBackends := []string{BackendMemory, BackendSQLite}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == BackendSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.SuggestDelay <= 0 {
		errors = append(errors, fmt.Sprintf("invalid suggest delay %v: must be positive", c.SuggestDelay))
	} else if c.SuggestDelay > 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid suggest delay %v: must be at most 10 seconds", c.SuggestDelay))
	}

	if c.MemoSize < 1 || c.MemoSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid memo size %d: must be between 1 and 1000", c.MemoSize))
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid time zone '%s': %v", c.TimeZone, err))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves TimeZone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// bare numbers are milliseconds
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
