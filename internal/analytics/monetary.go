package analytics

import "ecomdash/internal/core"

const componentMonetary = "monetary"

// ComputeMonetary sums payment_value over every order line of each customer.
// Every customer appears exactly once, in first-seen order.
func ComputeMonetary(ds *core.Dataset) ([]core.Monetary, error) {
	if err := ds.Schema().Require(componentMonetary, core.ColCustomerID, core.ColPayment); err != nil {
		return nil, err
	}

	groups := Fold(ds.Lines(), customerKey,
		func() core.Money { return core.ZeroMoney },
		func(sum core.Money, l core.OrderLine) core.Money { return sum.Add(l.Payment) },
	)

	out := make([]core.Monetary, 0, len(groups))
	for _, g := range groups {
		out = append(out, core.Monetary{CustomerID: g.Key, Total: g.Acc})
	}
	return out, nil
}
