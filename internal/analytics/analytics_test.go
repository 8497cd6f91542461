package analytics

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomdash/internal/core"
)

func ts(s string) core.NullTime {
	t := core.ParseNullTime(s)
	if !t.Valid {
		panic("bad fixture timestamp " + s)
	}
	return t
}

func line(customer, category, city string, approved core.NullTime, payment string) core.OrderLine {
	return core.OrderLine{
		OrderID:    "o-" + customer,
		CustomerID: customer,
		ProductID:  "p-" + category,
		Category:   core.NewNullString(category),
		City:       core.NewNullString(city),
		ApprovedAt: approved,
		Payment:    core.MustMoney(payment),
	}
}

func dataset(t *testing.T, lines ...core.OrderLine) *core.Dataset {
	t.Helper()
	ds, err := core.NewDataset(core.FullSchema(), lines)
	require.NoError(t, err)
	return ds
}

func label(s *string) string { return core.Label(s) }

func TestCategoriesAndMonetaryExample(t *testing.T) {
	ds := dataset(t,
		line("C1", "toys", "sao paulo", ts("2018-08-01 10:00:00"), "50.0"),
		line("C1", "toys", "sao paulo", ts("2018-08-02 10:00:00"), "30.0"),
		line("C2", "toys", "rio de janeiro", ts("2018-08-03 10:00:00"), "100.0"),
	)

	cats, err := AggregateCategories(ds)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "toys", label(cats[0].Product))
	assert.Equal(t, 3, cats[0].TotalProduct)

	mon, err := ComputeMonetary(ds)
	require.NoError(t, err)
	require.Len(t, mon, 2)
	assert.Equal(t, "C1", mon[0].CustomerID)
	assert.True(t, mon[0].Total.Equal(core.MustMoney("80")))
	assert.Equal(t, "C2", mon[1].CustomerID)
	assert.True(t, mon[1].Total.Equal(core.MustMoney("100")))
}

func TestAggregateCategoriesOrderingAndNulls(t *testing.T) {
	ds := dataset(t,
		line("C1", "garden", "a", core.NullTime{}, "1"),
		line("C2", "", "a", core.NullTime{}, "1"),
		line("C3", "toys", "a", core.NullTime{}, "1"),
		line("C4", "toys", "a", core.NullTime{}, "1"),
		line("C5", "", "a", core.NullTime{}, "1"),
		line("C6", "bed_bath_table", "a", core.NullTime{}, "1"),
	)

	cats, err := AggregateCategories(ds)
	require.NoError(t, err)
	require.Len(t, cats, 4)

	// toys and the null group tie at 2; null was seen first.
	assert.Nil(t, cats[0].Product)
	assert.Equal(t, 2, cats[0].TotalProduct)
	assert.Equal(t, "toys", label(cats[1].Product))
	assert.Equal(t, "garden", label(cats[2].Product))
	assert.Equal(t, "bed_bath_table", label(cats[3].Product))

	total := 0
	for _, c := range cats {
		total += c.TotalProduct
	}
	assert.Equal(t, ds.Len(), total)
}

func TestAggregateCustomersByCityDistinct(t *testing.T) {
	ds := dataset(t,
		line("C1", "x", "curitiba", core.NullTime{}, "1"),
		line("C1", "x", "sao paulo", core.NullTime{}, "1"),
		line("C2", "x", "sao paulo", core.NullTime{}, "1"),
		line("C2", "x", "sao paulo", core.NullTime{}, "1"),
		line("C3", "x", "sao paulo", core.NullTime{}, "1"),
		line("C4", "x", "curitiba", core.NullTime{}, "1"),
	)

	cities, err := AggregateCustomersByCity(ds)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "sao paulo", label(cities[0].City))
	assert.Equal(t, 3, cities[0].TotalCustomer)
	assert.Equal(t, "curitiba", label(cities[1].City))
	assert.Equal(t, 2, cities[1].TotalCustomer)

	// Sum equals distinct (customer, city) pairs.
	assert.Equal(t, 5, cities[0].TotalCustomer+cities[1].TotalCustomer)
}

func TestComputeRecency(t *testing.T) {
	ref := time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC)
	ds := dataset(t,
		line("C1", "x", "a", ts("2018-12-01 12:00:00"), "1"),
		line("C1", "x", "a", ts("2018-12-30 23:00:00"), "1"),
		line("C2", "x", "a", ts("2018-01-01 00:00:00"), "1"),
		line("C3", "x", "a", core.NullTime{}, "1"),
		line("C4", "x", "a", ts("2019-01-02 00:00:00"), "1"),
		line("C2", "x", "a", core.NullTime{}, "1"),
	)

	rec, err := ComputeRecency(ds, ref)
	require.NoError(t, err)
	require.Len(t, rec, 4)

	assert.Equal(t, "C2", rec[0].CustomerID)
	assert.Equal(t, 364, *rec[0].Days)
	assert.Equal(t, "C1", rec[1].CustomerID)
	assert.Equal(t, 0, *rec[1].Days)
	assert.Equal(t, "C4", rec[2].CustomerID)
	assert.Equal(t, -2, *rec[2].Days)
	assert.Equal(t, "C3", rec[3].CustomerID)
	assert.Nil(t, rec[3].Days)
}

func TestComputeRecencyMonotonic(t *testing.T) {
	ref := DefaultReferenceDate
	ds := dataset(t,
		line("A", "x", "a", ts("2018-03-05 08:00:00"), "1"),
		line("B", "x", "a", ts("2018-03-05 20:00:00"), "1"),
		line("C", "x", "a", ts("2018-07-01 00:00:00"), "1"),
	)
	rec, err := ComputeRecency(ds, ref)
	require.NoError(t, err)
	days := map[string]int{}
	for _, r := range rec {
		days[r.CustomerID] = *r.Days
	}
	assert.GreaterOrEqual(t, days["A"], days["B"])
	assert.GreaterOrEqual(t, days["B"], days["C"])
}

func TestTrailingMonthClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		end  time.Time
		want time.Time
	}{
		{time.Date(2018, 3, 31, 10, 0, 0, 0, time.UTC), time.Date(2018, 2, 28, 10, 0, 0, 0, time.UTC)},
		{time.Date(2016, 3, 31, 0, 0, 0, 0, time.UTC), time.Date(2016, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2018, 1, 15, 6, 30, 0, 0, time.UTC), time.Date(2017, 12, 15, 6, 30, 0, 0, time.UTC)},
		{time.Date(2018, 9, 3, 17, 40, 6, 0, time.UTC), time.Date(2018, 8, 3, 17, 40, 6, 0, time.UTC)},
	}
	for _, tc := range cases {
		w := TrailingMonth(tc.end)
		assert.True(t, w.Start.Equal(tc.want), "end %v: got %v want %v", tc.end, w.Start, tc.want)
		assert.True(t, w.End.Equal(tc.end))
	}
}

func TestComputeFrequencyWindow(t *testing.T) {
	ds := dataset(t,
		line("C1", "x", "a", ts("2018-09-03 17:40:06"), "1"), // global max, end bound
		line("C1", "x", "a", ts("2018-08-20 00:00:00"), "1"),
		line("C2", "x", "a", ts("2018-08-03 17:40:06"), "1"), // start bound
		line("C2", "x", "a", ts("2018-08-03 17:40:05"), "1"), // just outside
		line("C3", "x", "a", core.NullTime{}, "1"),
		line("C4", "x", "a", ts("2017-01-01 00:00:00"), "1"),
	)

	freq, err := ComputeFrequency(ds)
	require.NoError(t, err)
	assert.Equal(t, []core.Frequency{
		{CustomerID: "C1", Count: 2},
		{CustomerID: "C2", Count: 1},
	}, freq)
}

func TestNullApprovedCustomerRecencyVsFrequency(t *testing.T) {
	ds := dataset(t,
		line("C1", "x", "a", ts("2018-08-01 00:00:00"), "1"),
		line("C3", "x", "a", core.NullTime{}, "1"),
	)

	rec, err := ComputeRecency(ds, DefaultReferenceDate)
	require.NoError(t, err)
	var found bool
	for _, r := range rec {
		if r.CustomerID == "C3" {
			found = true
			assert.Nil(t, r.Days)
		}
	}
	assert.True(t, found, "C3 must stay in recency output")

	freq, err := ComputeFrequency(ds)
	require.NoError(t, err)
	for _, f := range freq {
		assert.NotEqual(t, "C3", f.CustomerID)
	}
}

func TestComputeFrequencyWithoutApprovedOrders(t *testing.T) {
	ds := dataset(t, line("C1", "x", "a", core.NullTime{}, "1"))
	freq, err := ComputeFrequency(ds)
	require.NoError(t, err)
	assert.Empty(t, freq)
}

func TestMonetaryIndependentOfRowOrder(t *testing.T) {
	payments := []string{"0.1", "0.2", "0.3", "19.99", "1000000.01", "0", "7.7"}
	var lines []core.OrderLine
	for _, p := range payments {
		lines = append(lines, line("C1", "x", "a", core.NullTime{}, p))
	}
	want, err := ComputeMonetary(dataset(t, lines...))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]core.OrderLine(nil), lines...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := ComputeMonetary(dataset(t, shuffled...))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Total.Equal(want[0].Total), "got %s want %s", got[0].Total, want[0].Total)
	}
	assert.Equal(t, "1000028.3", want[0].Total.String())
}

func TestComponentsRejectMissingColumns(t *testing.T) {
	schema := core.NewSchema([]string{core.ColCustomerID, core.ColPayment})
	ds, err := core.NewDataset(schema, []core.OrderLine{line("C1", "x", "a", core.NullTime{}, "1")})
	require.NoError(t, err)

	var mErr *core.MalformedInputError

	_, err = AggregateCategories(ds)
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, core.ColCategory, mErr.Column)

	_, err = AggregateCustomersByCity(ds)
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, core.ColCity, mErr.Column)

	_, err = ComputeRecency(ds, DefaultReferenceDate)
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, core.ColApprovedAt, mErr.Column)

	_, err = ComputeFrequency(ds)
	require.True(t, errors.As(err, &mErr))

	_, err = ComputeMonetary(ds)
	assert.NoError(t, err)

	_, err = Build(context.Background(), ds, Options{})
	assert.True(t, errors.As(err, &mErr), "report must fail as a whole")
}

func TestBuildIsIdempotent(t *testing.T) {
	ds := dataset(t,
		line("C1", "toys", "sao paulo", ts("2018-08-01 10:00:00"), "50.0"),
		line("C2", "garden", "curitiba", ts("2018-08-20 10:00:00"), "30.0"),
		line("C3", "", "", core.NullTime{}, "10"),
	)

	var (
		mu       sync.Mutex
		observed []string
	)
	first, err := Build(context.Background(), ds, Options{
		Observe: func(component string, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			observed = append(observed, component)
		},
	})
	require.NoError(t, err)
	second, err := Build(context.Background(), ds, Options{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 3, first.Rows)
	assert.Equal(t, DefaultReferenceDate, first.ReferenceDate)
	require.NotNil(t, first.Window)
	assert.Equal(t, time.Date(2018, 7, 20, 10, 0, 0, 0, time.UTC), first.Window.Start)
	assert.ElementsMatch(t, Components(), observed)
}

func TestBuildCancelled(t *testing.T) {
	ds := dataset(t, line("C1", "x", "a", core.NullTime{}, "1"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, ds, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
