package analytics

import (
	"sort"
	"time"

	"ecomdash/internal/core"
)

const componentRecency = "recency"

// DefaultReferenceDate is the end of the dataset's analysis year.
var DefaultReferenceDate = time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

// ComputeRecency returns, per customer, the whole days between reference and
// the customer's latest approved order. Customers without any approved order
// keep a nil recency and sort after everyone else; otherwise the longest
// inactive customers come first. Negative values are kept as is.
func ComputeRecency(ds *core.Dataset, reference time.Time) ([]core.Recency, error) {
	if err := ds.Schema().Require(componentRecency, core.ColCustomerID, core.ColApprovedAt); err != nil {
		return nil, err
	}

	groups := Fold(ds.Lines(), customerKey, zero[core.NullTime],
		func(latest core.NullTime, l core.OrderLine) core.NullTime {
			if l.ApprovedAt.After(latest) {
				return l.ApprovedAt
			}
			return latest
		},
	)

	out := make([]core.Recency, 0, len(groups))
	for _, g := range groups {
		r := core.Recency{CustomerID: g.Key}
		if g.Acc.Valid {
			d := wholeDays(reference.Sub(g.Acc.Time))
			r.Days = &d
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Days, out[j].Days
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	return out, nil
}

// wholeDays floors a duration to whole days, rounding towards negative infinity.
func wholeDays(d time.Duration) int {
	n := d / day
	if d%day < 0 {
		n--
	}
	return int(n)
}

// MaxApproved returns the latest approved timestamp across the whole dataset.
func MaxApproved(ds *core.Dataset) core.NullTime {
	var latest core.NullTime
	for _, l := range ds.Lines() {
		if l.ApprovedAt.After(latest) {
			latest = l.ApprovedAt
		}
	}
	return latest
}
