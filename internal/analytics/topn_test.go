package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomdash/internal/core"
)

func str(s string) *string { return &s }

func days(d int) *int { return &d }

func TestTopAndBottomBestSellers(t *testing.T) {
	rows := []core.BestSeller{
		{Product: str("bed_bath_table"), TotalProduct: 9},
		{Product: str("health_beauty"), TotalProduct: 7},
		{Product: str("toys"), TotalProduct: 7},
		{Product: str("security_and_services"), TotalProduct: 1},
		{Product: nil, TotalProduct: 1},
	}

	top := TopBestSellers(rows, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "bed_bath_table", *top[0].Product)
	assert.Equal(t, "health_beauty", *top[1].Product)

	bottom := BottomBestSellers(rows, 3)
	require.Len(t, bottom, 3)
	assert.Equal(t, "security_and_services", *bottom[0].Product)
	assert.Nil(t, bottom[1].Product)
	assert.Equal(t, "health_beauty", *bottom[2].Product)

	// Input order must be untouched.
	assert.Equal(t, "bed_bath_table", *rows[0].Product)
	assert.Len(t, TopBestSellers(rows, 0), len(rows))
}

func TestTopFrequencyAndMonetary(t *testing.T) {
	freq := []core.Frequency{{CustomerID: "a", Count: 1}, {CustomerID: "b", Count: 15}, {CustomerID: "c", Count: 3}}
	top := TopFrequency(freq, 2)
	assert.Equal(t, []core.Frequency{{CustomerID: "b", Count: 15}, {CustomerID: "c", Count: 3}}, top)

	mon := []core.Monetary{
		{CustomerID: "a", Total: core.MustMoney("10.5")},
		{CustomerID: "b", Total: core.MustMoney("1000000.01")},
		{CustomerID: "c", Total: core.MustMoney("99")},
	}
	topMon := TopMonetary(mon, 20)
	require.Len(t, topMon, 3)
	assert.Equal(t, "b", topMon[0].CustomerID)
	assert.Equal(t, "c", topMon[1].CustomerID)
	assert.Equal(t, "a", topMon[2].CustomerID)
}

func TestRecencyHistogram(t *testing.T) {
	rows := []core.Recency{
		{CustomerID: "a", Days: days(0)},
		{CustomerID: "b", Days: days(9)},
		{CustomerID: "c", Days: days(10)},
		{CustomerID: "d", Days: days(19)},
		{CustomerID: "e", Days: nil},
	}
	bins := RecencyHistogram(rows, 2)
	assert.Equal(t, []Bin{
		{Lower: 0, Upper: 10, Count: 2},
		{Lower: 10, Upper: 20, Count: 2},
	}, bins)

	total := 0
	for _, b := range RecencyHistogram(rows, 30) {
		total += b.Count
	}
	assert.Equal(t, 4, total)
	assert.Empty(t, RecencyHistogram([]core.Recency{{CustomerID: "x"}}, 5))
}

func TestRecencyHistogramUsesRequestedBins(t *testing.T) {
	var rows []core.Recency
	for d := 0; d <= 30; d++ {
		rows = append(rows, core.Recency{CustomerID: fmt.Sprint(d), Days: days(d)})
	}

	bins := RecencyHistogram(rows, 30)
	require.Len(t, bins, 30)
	assert.Equal(t, Bin{Lower: 0, Upper: 2, Count: 2}, bins[0])
	assert.Equal(t, Bin{Lower: 30, Upper: 31, Count: 1}, bins[29])

	total := 0
	for i, b := range bins {
		total += b.Count
		if i > 0 {
			assert.Equal(t, bins[i-1].Upper, b.Lower, "bins must be contiguous")
		}
	}
	assert.Equal(t, 31, total)

	wide := []core.Recency{{CustomerID: "a", Days: days(-5)}, {CustomerID: "b", Days: days(94)}}
	bins = RecencyHistogram(wide, 30)
	require.Len(t, bins, 30)
	assert.Equal(t, -5, bins[0].Lower)
	assert.Equal(t, 95, bins[29].Upper)
	assert.Equal(t, 1, bins[0].Count)
	assert.Equal(t, 1, bins[29].Count)
}

func TestHighlight(t *testing.T) {
	r := &Report{
		BestSellers: []core.BestSeller{{Product: str("bed_bath_table"), TotalProduct: 3}, {Product: str("security_and_services"), TotalProduct: 1}},
		Cities:      []core.CityCustomers{{City: str("sao paulo"), TotalCustomer: 2}},
		Frequency:   []core.Frequency{{CustomerID: "a", Count: 1}},
		Monetary:    []core.Monetary{{CustomerID: "a"}, {CustomerID: "b"}},
	}
	h := Highlight(r)
	assert.Equal(t, "bed_bath_table", h.BestCategory)
	assert.Equal(t, "security_and_services", h.WorstCategory)
	assert.Equal(t, "sao paulo", h.TopCity)
	assert.Equal(t, 2, h.Customers)
	assert.Equal(t, 1, h.ActiveInMonth)
}
