// Package csvfile loads the order dataset from a delimited text file.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"ecomdash/internal/core"
	"ecomdash/internal/dataset"
)

var ErrEmptyFile = errors.New("file has no header row")

// Source reads a CSV file with a header row.
type Source struct {
	path  string
	comma rune
}

var _ dataset.Source = (*Source)(nil)

// New returns a source for path. A zero comma means ','.
func New(path string, comma rune) *Source {
	if comma == 0 {
		comma = ','
	}
	return &Source{path: path, comma: comma}
}

// Name implements dataset.Source.
func (s *Source) Name() string {
	return filepath.Base(s.path)
}

// Load implements dataset.Source.
func (s *Source) Load(ctx context.Context) (*core.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &core.InputLoadError{Source: s.path, Err: err}
	}
	defer f.Close()

	ds, err := Read(ctx, s.Name(), f, s.comma)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Dataset loaded from CSV", "path", s.path, "rows", ds.Len())
	return ds, nil
}

// Read parses CSV content from r. name labels errors.
func Read(ctx context.Context, name string, r io.Reader, comma rune) (*core.Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &core.InputLoadError{Source: name, Err: ErrEmptyFile}
	}
	if err != nil {
		return nil, &core.InputLoadError{Source: name, Line: 1, Err: err}
	}
	dec, err := dataset.NewDecoder(name, append([]string(nil), header...))
	if err != nil {
		return nil, err
	}

	var lines []core.OrderLine
	for lineNo := 2; ; lineNo++ {
		if lineNo%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &core.InputLoadError{Source: name, Err: err}
			}
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &core.InputLoadError{Source: name, Line: lineNo, Err: fmt.Errorf("parse row: %w", err)}
		}
		l, err := dec.Decode(rec, lineNo)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return core.NewDataset(dec.Schema(), lines)
}
