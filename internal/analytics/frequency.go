package analytics

import (
	"time"

	"ecomdash/internal/core"
)

const componentFrequency = "frequency"

// Window is the inclusive trailing period used for frequency.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TrailingMonth returns the one-month window ending at end. The start is the
// same wall-clock time one calendar month earlier, clamped to the last day of
// that month (March 31 becomes February 28 or 29).
func TrailingMonth(end time.Time) Window {
	return Window{Start: subtractMonth(end), End: end}
}

func subtractMonth(t time.Time) time.Time {
	year, month, d := t.Date()
	month--
	if month < time.January {
		month = time.December
		year--
	}
	if last := daysIn(year, month); d > last {
		d = last
	}
	h, m, s := t.Clock()
	return time.Date(year, month, d, h, m, s, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ComputeFrequency counts each customer's order lines approved within the
// trailing month that ends at the dataset's latest approved timestamp.
// Customers with no line in the window are omitted.
func ComputeFrequency(ds *core.Dataset) ([]core.Frequency, error) {
	return ComputeFrequencyAt(ds, MaxApproved(ds))
}

// ComputeFrequencyAt is ComputeFrequency with a precomputed end timestamp, so
// callers that also need the maximum compute it once.
func ComputeFrequencyAt(ds *core.Dataset, end core.NullTime) ([]core.Frequency, error) {
	if err := ds.Schema().Require(componentFrequency, core.ColCustomerID, core.ColApprovedAt); err != nil {
		return nil, err
	}
	if !end.Valid {
		return []core.Frequency{}, nil
	}

	w := TrailingMonth(end.Time)
	recent := Filter(ds.Lines(), func(l core.OrderLine) bool {
		return l.ApprovedAt.Within(w.Start, w.End)
	})
	groups := Fold(recent, customerKey, zero[int], count[int])

	out := make([]core.Frequency, 0, len(groups))
	for _, g := range groups {
		out = append(out, core.Frequency{CustomerID: g.Key, Count: g.Acc})
	}
	return out, nil
}
