// Package google loads the order dataset from a Google Sheets range.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"ecomdash/internal/core"
	"ecomdash/internal/dataset"
)

// Config selects the spreadsheet range and credentials.
type Config struct {
	SpreadsheetID string
	// Range in A1 notation; a bare sheet name reads the whole sheet.
	Range string
	// Service account credentials, inline JSON or a file path.
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	rng           string
}

var _ dataset.Source = (*Client)(nil)

// New creates a read-only Sheets client for cfg.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	rng := strings.TrimSpace(cfg.Range)
	if rng == "" {
		rng = "all_data"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID, rng: rng}, nil
}

// newSheetsService initializes a Sheets service from service account
// credentials, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	credentialsFile := strings.TrimSpace(cfg.CredentialsFile)
	if cfg.CredentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case cfg.CredentialsJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case credentialsFile != "":
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read credentials file", "path", credentialsFile, "size", len(b))
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Name implements dataset.Source.
func (c *Client) Name() string {
	return "sheets:" + c.rng
}

// Load implements dataset.Source.
func (c *Client) Load(ctx context.Context) (*core.Dataset, error) {
	if c.svc == nil {
		return nil, &core.InputLoadError{Source: c.Name(), Err: errors.New("sheets service not initialized")}
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, &core.InputLoadError{Source: c.Name(), Err: fmt.Errorf("read %s: %w", c.rng, err)}
	}

	ds, err := parseValues(c.Name(), resp.Values)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Dataset loaded from Google Sheets", "range", c.rng, "rows", ds.Len())
	return ds, nil
}

// parseValues converts a values matrix whose first row is the header.
func parseValues(name string, values [][]interface{}) (*core.Dataset, error) {
	if len(values) == 0 {
		return nil, &core.InputLoadError{Source: name, Err: errors.New("range is empty")}
	}
	dec, err := dataset.NewDecoder(name, toStrings(values[0]))
	if err != nil {
		return nil, err
	}
	lines := make([]core.OrderLine, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		l, err := dec.Decode(row, i+1)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return core.NewDataset(dec.Schema(), lines)
}

func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
