package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// ReferenceLayout is the date format accepted for REFERENCE_DATE.
const ReferenceLayout = "2006-01-02"

type Config struct {
	// HTTP Server
	Port string
	// API requests allowed per client per minute
	RateLimit int

	// Backend selection
	DataBackend string

	// CSV
	DatasetPath  string
	CSVDelimiter string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetRange         string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Analytics
	ReferenceDate string
	CacheTTL      time.Duration

	LogLevel   string
	PanelsFile string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8081"),
		RateLimit:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		DataBackend: getEnv("DATA_BACKEND", "csv"),

		DatasetPath:  getEnv("DATASET_PATH", "./all_data.csv"),
		CSVDelimiter: getEnv("CSV_DELIMITER", ","),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ecomdash.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetRange:         getEnv("GOOGLE_SHEET_RANGE", "all_data"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		ReferenceDate: getEnv("REFERENCE_DATE", "2018-12-31"),
		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		PanelsFile: getEnv("PANELS_FILE", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimit))
	}

	validBackends := []string{"csv", "sqlite", "sheets"}
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

	switch c.DataBackend {
	case "csv":
		if c.DatasetPath == "" {
			errors = append(errors, "dataset path cannot be empty when using csv backend")
		}
		if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
			errors = append(errors, fmt.Sprintf("invalid CSV delimiter %q: must be a single character", c.CSVDelimiter))
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if _, err := os.Stat(c.SQLiteDBPath); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("SQLite database does not exist: %s (run dataset-import first)", c.SQLiteDBPath))
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetRange == "" {
			errors = append(errors, "Google sheet range is required when using sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if _, err := time.Parse(ReferenceLayout, c.ReferenceDate); err != nil {
		errors = append(errors, fmt.Sprintf("invalid reference date '%s': must be YYYY-MM-DD", c.ReferenceDate))
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.PanelsFile != "" {
		if _, err := os.Stat(c.PanelsFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("panels file does not exist: %s", c.PanelsFile))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Reference returns the parsed recency reference date in UTC.
// Call after Validate.
func (c *Config) Reference() time.Time {
	t, err := time.Parse(ReferenceLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Delimiter returns the CSV delimiter as a rune, ',' when unset.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
