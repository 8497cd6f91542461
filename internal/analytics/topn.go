package analytics

import (
	"sort"

	"ecomdash/internal/core"
)

// Display helpers. They copy before sorting so report tables stay untouched.

func head[T any](rows []T, n int) []T {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// TopBestSellers returns the n most sold categories.
func TopBestSellers(rows []core.BestSeller, n int) []core.BestSeller {
	out := append([]core.BestSeller(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalProduct > out[j].TotalProduct })
	return head(out, n)
}

// BottomBestSellers returns the n least sold categories, least sold first.
func BottomBestSellers(rows []core.BestSeller, n int) []core.BestSeller {
	out := append([]core.BestSeller(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalProduct < out[j].TotalProduct })
	return head(out, n)
}

// TopCities returns the n cities with most distinct customers.
func TopCities(rows []core.CityCustomers, n int) []core.CityCustomers {
	out := append([]core.CityCustomers(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCustomer > out[j].TotalCustomer })
	return head(out, n)
}

// TopFrequency returns the n customers with most order lines in the window.
func TopFrequency(rows []core.Frequency, n int) []core.Frequency {
	out := append([]core.Frequency(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return head(out, n)
}

// TopMonetary returns the n customers with the highest summed payments.
func TopMonetary(rows []core.Monetary, n int) []core.Monetary {
	out := append([]core.Monetary(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total.Decimal) })
	return head(out, n)
}

// TopRecency returns the first n rows of a recency table, which is already
// ordered most dormant first.
func TopRecency(rows []core.Recency, n int) []core.Recency {
	return head(rows, n)
}

// Bin is one histogram bucket counting whole-day values in [Lower, Upper).
type Bin struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
	Count int `json:"count"`
}

// RecencyHistogram buckets non-null recency values into bins covering the
// whole-day range. It returns exactly bins buckets unless the range spans
// fewer days, in which case each day gets its own bucket. Widths differ by
// at most one day, the wider buckets coming first.
func RecencyHistogram(rows []core.Recency, bins int) []Bin {
	if bins <= 0 {
		bins = 30
	}
	var values []int
	for _, r := range rows {
		if r.Days != nil {
			values = append(values, *r.Days)
		}
	}
	if len(values) == 0 {
		return []Bin{}
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	span := hi - lo + 1
	n := min(bins, span)
	width, extra := span/n, span%n
	// The first extra buckets are one day wider.
	wide := extra * (width + 1)

	out := make([]Bin, n)
	lower := lo
	for i := range out {
		w := width
		if i < extra {
			w++
		}
		out[i].Lower = lower
		out[i].Upper = lower + w
		lower += w
	}
	for _, v := range values {
		d := v - lo
		if d < wide {
			out[d/(width+1)].Count++
		} else {
			out[extra+(d-wide)/width].Count++
		}
	}
	return out
}

// Highlights are the headline figures shown above the charts.
type Highlights struct {
	BestCategory  string `json:"best_category"`
	WorstCategory string `json:"worst_category"`
	TopCity       string `json:"top_city"`
	Customers     int    `json:"customers"`
	ActiveInMonth int    `json:"active_in_month"`
}

// Highlight derives the headline figures from a report.
func Highlight(r *Report) Highlights {
	var h Highlights
	if best := TopBestSellers(r.BestSellers, 1); len(best) > 0 {
		h.BestCategory = core.Label(best[0].Product)
	}
	if worst := BottomBestSellers(r.BestSellers, 1); len(worst) > 0 {
		h.WorstCategory = core.Label(worst[0].Product)
	}
	if top := TopCities(r.Cities, 1); len(top) > 0 {
		h.TopCity = core.Label(top[0].City)
	}
	h.Customers = len(r.Monetary)
	h.ActiveInMonth = len(r.Frequency)
	return h
}
