package memory

import (
	"context"
	"errors"

	"ecomdash/internal/core"
	"ecomdash/internal/dataset"
)

var errNoDataset = errors.New("no dataset")

// Store serves an already built dataset.
type Store struct {
	name string
	ds   *core.Dataset
}

var _ dataset.Source = (*Store)(nil)

func New(name string, ds *core.Dataset) *Store {
	return &Store{name: name, ds: ds}
}

// NewFromLines declares every column and wraps lines.
func NewFromLines(name string, lines []core.OrderLine) (*Store, error) {
	ds, err := core.NewDataset(core.FullSchema(), lines)
	if err != nil {
		return nil, err
	}
	return New(name, ds), nil
}

// Load returns the wrapped dataset.
func (s *Store) Load(_ context.Context) (*core.Dataset, error) {
	if s.ds == nil {
		return nil, &core.InputLoadError{Source: s.name, Err: errNoDataset}
	}
	return s.ds, nil
}

func (s *Store) Name() string { return s.name }
