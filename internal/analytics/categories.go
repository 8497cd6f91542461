package analytics

import (
	"sort"

	"ecomdash/internal/core"
)

const componentCategories = "categories"

// AggregateCategories counts order lines per product category, most sold first.
// Lines without a category form their own group. Ties keep first-seen order.
func AggregateCategories(ds *core.Dataset) ([]core.BestSeller, error) {
	if err := ds.Schema().Require(componentCategories, core.ColCategory); err != nil {
		return nil, err
	}

	groups := Fold(ds.Lines(),
		func(l core.OrderLine) nullKey { return keyOf(l.Category) },
		zero[int],
		count[int],
	)

	out := make([]core.BestSeller, 0, len(groups))
	for _, g := range groups {
		out = append(out, core.BestSeller{Product: g.Key.ptr(), TotalProduct: g.Acc})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalProduct > out[j].TotalProduct
	})
	return out, nil
}
