// Package backend selects and builds the dataset source named by the
// configuration.
package backend

import (
	"context"

	"ecomdash/internal/dataset"
	"ecomdash/internal/dataset/google"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the source and an optional cleanup function.
type Result struct {
	Source  dataset.Source
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates dataset sources based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for source creation
type Config struct {
	Type BackendType

	// CSV specific
	DatasetPath  string
	CSVDelimiter rune

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	Sheets google.Config
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
