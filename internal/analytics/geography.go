package analytics

import (
	"sort"

	"ecomdash/internal/core"
)

const componentCities = "cities"

// AggregateCustomersByCity counts distinct customers per city, largest first.
// A customer seen under two cities counts once in each.
func AggregateCustomersByCity(ds *core.Dataset) ([]core.CityCustomers, error) {
	if err := ds.Schema().Require(componentCities, core.ColCity, core.ColCustomerID); err != nil {
		return nil, err
	}

	groups := Fold(ds.Lines(),
		func(l core.OrderLine) nullKey { return keyOf(l.City) },
		func() map[string]struct{} { return make(map[string]struct{}) },
		func(seen map[string]struct{}, l core.OrderLine) map[string]struct{} {
			seen[l.CustomerID] = struct{}{}
			return seen
		},
	)

	out := make([]core.CityCustomers, 0, len(groups))
	for _, g := range groups {
		out = append(out, core.CityCustomers{City: g.Key.ptr(), TotalCustomer: len(g.Acc)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCustomer > out[j].TotalCustomer
	})
	return out, nil
}
