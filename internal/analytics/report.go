package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ecomdash/internal/core"
)

// Report holds the five summary tables computed from one dataset.
type Report struct {
	Rows          int
	ReferenceDate time.Time
	// Window is nil when no order line has an approved timestamp.
	Window      *Window
	BestSellers []core.BestSeller
	Cities      []core.CityCustomers
	Recency     []core.Recency
	Frequency   []core.Frequency
	Monetary    []core.Monetary
}

// Options configures Build.
type Options struct {
	ReferenceDate time.Time
	// Observe, if set, is called with each component's computation time.
	Observe func(component string, elapsed time.Duration)
}

// Build computes all five tables concurrently. Either every table is produced
// or the first error is returned and the report is discarded.
func Build(ctx context.Context, ds *core.Dataset, opts Options) (*Report, error) {
	if ds == nil {
		return nil, fmt.Errorf("build report: nil dataset")
	}
	ref := opts.ReferenceDate
	if ref.IsZero() {
		ref = DefaultReferenceDate
	}
	end := MaxApproved(ds)

	r := &Report{Rows: ds.Len(), ReferenceDate: ref}
	if end.Valid {
		w := TrailingMonth(end.Time)
		r.Window = &w
	}

	g, ctx := errgroup.WithContext(ctx)
	run := func(component string, fn func() error) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := fn(); err != nil {
				return fmt.Errorf("compute %s: %w", component, err)
			}
			if opts.Observe != nil {
				opts.Observe(component, time.Since(start))
			}
			return nil
		})
	}

	run(componentCategories, func() (err error) {
		r.BestSellers, err = AggregateCategories(ds)
		return err
	})
	run(componentCities, func() (err error) {
		r.Cities, err = AggregateCustomersByCity(ds)
		return err
	})
	run(componentRecency, func() (err error) {
		r.Recency, err = ComputeRecency(ds, ref)
		return err
	})
	run(componentFrequency, func() (err error) {
		r.Frequency, err = ComputeFrequencyAt(ds, end)
		return err
	})
	run(componentMonetary, func() (err error) {
		r.Monetary, err = ComputeMonetary(ds)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

// Components lists the component names reported to Options.Observe.
func Components() []string {
	return []string{componentCategories, componentCities, componentRecency, componentFrequency, componentMonetary}
}
