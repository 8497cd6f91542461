package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:          "8081",
		RateLimit:     120,
		DataBackend:   "csv",
		DatasetPath:   "./all_data.csv",
		CSVDelimiter:  ",",
		ReferenceDate: "2018-12-31",
		CacheTTL:      10 * time.Minute,
		LogLevel:      "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid csv backend config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range low",
			mutate:      func(c *Config) { c.Port = "0" },
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name:        "invalid port - out of range high",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "memory" },
			wantErr:     true,
			errorString: "invalid data backend 'memory': must be one of [csv sqlite sheets]",
		},
		{
			name:        "csv backend missing dataset path",
			mutate:      func(c *Config) { c.DatasetPath = "" },
			wantErr:     true,
			errorString: "dataset path cannot be empty when using csv backend",
		},
		{
			name:        "csv delimiter too long",
			mutate:      func(c *Config) { c.CSVDelimiter = ";;" },
			wantErr:     true,
			errorString: `invalid CSV delimiter ";;": must be a single character`,
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty when using sqlite backend",
		},
		{
			name: "sqlite backend database not imported",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = "/non/existent/ecomdash.db"
			},
			wantErr:     true,
			errorString: "SQLite database does not exist",
		},
		{
			name: "sheets backend missing spreadsheet ID",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSheetRange = "all_data"
			},
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required when using sheets backend",
		},
		{
			name: "sheets backend missing range",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSpreadsheetID = "123456789"
			},
			wantErr:     true,
			errorString: "Google sheet range is required when using sheets backend",
		},
		{
			name: "sheets backend with non-existent service account file",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSpreadsheetID = "123456789"
				c.GoogleSheetRange = "all_data"
				c.GoogleServiceAccountFile = "/non/existent/file.json"
			},
			wantErr:     true,
			errorString: "Google service account file does not exist",
		},
		{
			name:        "invalid reference date",
			mutate:      func(c *Config) { c.ReferenceDate = "31/12/2018" },
			wantErr:     true,
			errorString: "invalid reference date '31/12/2018': must be YYYY-MM-DD",
		},
		{
			name:        "cache TTL too short",
			mutate:      func(c *Config) { c.CacheTTL = 500 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid cache TTL 500ms: must be at least 1 second",
		},
		{
			name:        "cache TTL too long",
			mutate:      func(c *Config) { c.CacheTTL = 25 * time.Hour },
			wantErr:     true,
			errorString: "invalid cache TTL 25h0m0s: must be at most 24 hours",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "zero rate limit",
			mutate:      func(c *Config) { c.RateLimit = 0 },
			wantErr:     true,
			errorString: "invalid rate limit 0",
		},
		{
			name:        "missing panels file",
			mutate:      func(c *Config) { c.PanelsFile = "/non/existent/panels.yaml" },
			wantErr:     true,
			errorString: "panels file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("expected both problems in one error, got %v", err)
	}
}

func TestConfig_ValidateWithFiles(t *testing.T) {
	tmpDir := t.TempDir()
	dbFile := filepath.Join(tmpDir, "ecomdash.db")
	credFile := filepath.Join(tmpDir, "sa.json")
	for _, f := range []string{dbFile, credFile} {
		if err := os.WriteFile(f, []byte(`{}`), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	sqliteCfg := validConfig()
	sqliteCfg.DataBackend = "sqlite"
	sqliteCfg.SQLiteDBPath = dbFile
	if err := sqliteCfg.Validate(); err != nil {
		t.Errorf("sqlite config: unexpected error %v", err)
	}

	sheetsCfg := validConfig()
	sheetsCfg.DataBackend = "sheets"
	sheetsCfg.GoogleSpreadsheetID = "123456789"
	sheetsCfg.GoogleSheetRange = "all_data"
	sheetsCfg.GoogleServiceAccountFile = credFile
	if err := sheetsCfg.Validate(); err != nil {
		t.Errorf("sheets config: unexpected error %v", err)
	}
}

func TestLoad(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_BACKEND", "DATASET_PATH", "CSV_DELIMITER", "REFERENCE_DATE", "CACHE_TTL", "LOG_LEVEL", "RATE_LIMIT_PER_MINUTE"} {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.DataBackend != "csv" {
			t.Errorf("Load() DataBackend = %v, want csv", cfg.DataBackend)
		}
		if cfg.DatasetPath != "./all_data.csv" {
			t.Errorf("Load() DatasetPath = %v, want ./all_data.csv", cfg.DatasetPath)
		}
		if cfg.SQLiteDBPath != "./data/ecomdash.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/ecomdash.db", cfg.SQLiteDBPath)
		}
		if cfg.CacheTTL != 10*time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 10m", cfg.CacheTTL)
		}
		want := time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC)
		if !cfg.Reference().Equal(want) {
			t.Errorf("Load() Reference = %v, want %v", cfg.Reference(), want)
		}
		if cfg.Delimiter() != ',' {
			t.Errorf("Load() Delimiter = %q, want ','", cfg.Delimiter())
		}
		if cfg.RateLimit != 120 {
			t.Errorf("Load() RateLimit = %v, want 120", cfg.RateLimit)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("DATA_BACKEND", "sqlite")
		t.Setenv("CSV_DELIMITER", ";")
		t.Setenv("REFERENCE_DATE", "2019-01-31")
		t.Setenv("CACHE_TTL", "1m")
		t.Setenv("LOG_LEVEL", "debug")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.DataBackend != "sqlite" {
			t.Errorf("Load() DataBackend = %v, want sqlite", cfg.DataBackend)
		}
		if cfg.Delimiter() != ';' {
			t.Errorf("Load() Delimiter = %q, want ';'", cfg.Delimiter())
		}
		if cfg.Reference().Month() != time.January {
			t.Errorf("Load() Reference = %v, want January", cfg.Reference())
		}
		if cfg.CacheTTL != time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 1m", cfg.CacheTTL)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("invalid duration falls back to default", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "soon")
		if got := Load().CacheTTL; got != 10*time.Minute {
			t.Errorf("Load() CacheTTL = %v, want 10m", got)
		}
	})
}

func TestLoadPanels(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		p, err := LoadPanels("")
		if err != nil {
			t.Fatalf("LoadPanels() error = %v", err)
		}
		if p.Cities.Limit != 10 || p.Recency.Limit != 30 || p.Monetary.Limit != 20 {
			t.Errorf("unexpected defaults: %+v", p)
		}
	})

	t.Run("file overrides selected fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "panels.yaml")
		content := "cities:\n  limit: 3\nmonetary:\n  title: Spend\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		p, err := LoadPanels(path)
		if err != nil {
			t.Fatalf("LoadPanels() error = %v", err)
		}
		if p.Cities.Limit != 3 {
			t.Errorf("Cities.Limit = %d, want 3", p.Cities.Limit)
		}
		if p.Cities.Title != "Customer Demographics" {
			t.Errorf("Cities.Title = %q, want default", p.Cities.Title)
		}
		if p.Monetary.Title != "Spend" || p.Monetary.Limit != 20 {
			t.Errorf("Monetary = %+v", p.Monetary)
		}
	})

	t.Run("negative limit rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "panels.yaml")
		if err := os.WriteFile(path, []byte("frequency:\n  limit: -1\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadPanels(path); err == nil || !strings.Contains(err.Error(), "frequency") {
			t.Errorf("expected frequency limit error, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "panels.yaml")
		if err := os.WriteFile(path, []byte("cities: [\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadPanels(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
