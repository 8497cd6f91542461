package core

// BestSeller is the number of order lines sold in one category.
// A nil Product groups lines without a category.
type BestSeller struct {
	Product      *string `json:"product"`
	TotalProduct int     `json:"total_product"`
}

// CityCustomers is the number of distinct customers in one city.
type CityCustomers struct {
	City          *string `json:"customer_city"`
	TotalCustomer int     `json:"total_customer"`
}

// Recency is the whole days between the reference date and a customer's last
// approved order. Nil when the customer has no approved order.
type Recency struct {
	CustomerID string `json:"customer_id"`
	Days       *int   `json:"recency"`
}

// Frequency is the number of a customer's order lines inside the trailing window.
type Frequency struct {
	CustomerID string `json:"customer_id"`
	Count      int    `json:"frequency"`
}

// Monetary is the summed payment value of a customer's order lines.
type Monetary struct {
	CustomerID string `json:"customer_id"`
	Total      Money  `json:"monetary"`
}

// Label returns the display name of a nullable group label.
func Label(s *string) string {
	if s == nil {
		return "(unknown)"
	}
	return *s
}
