// Package dataset loads the order dataset from one of the supported backends.
package dataset

import (
	"context"

	"ecomdash/internal/core"
)

// Source loads the order dataset once at startup.
type Source interface {
	// Load reads every order line. Failures are *core.InputLoadError or
	// *core.MalformedInputError.
	Load(ctx context.Context) (*core.Dataset, error)
	// Name identifies the source in logs and errors.
	Name() string
}
