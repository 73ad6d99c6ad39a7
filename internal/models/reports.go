package models

import "github.com/shopspring/decimal"

// GlobalTotals is the one-row summary over all recorded transactions.
type GlobalTotals struct {
	Transactions  int64           `json:"transactions"`
	Quantity      int64           `json:"quantity"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

// CategorySales aggregates transactions per resource category.
type CategorySales struct {
	Category string          `json:"category"`
	Count    int64           `json:"count"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
	Average  decimal.Decimal `json:"average"`
}

// CustomerSales aggregates transactions per customer, ranked by
// count descending, then revenue descending.
type CustomerSales struct {
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	City         string          `json:"city,omitempty"`
	Count        int64           `json:"count"`
	Total        decimal.Decimal `json:"total"`
	Average      decimal.Decimal `json:"average"`
}

// PeriodVolume aggregates transactions per calendar bucket ("2026-01" for
// month buckets, "2026-01-15" for the day drilldown).
type PeriodVolume struct {
	Period   string          `json:"period"`
	Count    int64           `json:"count"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// ResourceUsage carries booked hours per resource over a window; feeds the
// occupancy computation.
type ResourceUsage struct {
	ResourceID  int64  `json:"resource_id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Category    string `json:"category,omitempty"`
	BookedHours int64  `json:"booked_hours"`
}

// ResourceSales carries per-resource sales totals next to the current
// stock level; feeds the popularity and conversion computations.
type ResourceSales struct {
	ResourceID   int64           `json:"resource_id"`
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Category     string          `json:"category,omitempty"`
	Count        int64           `json:"count"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Stock        int64           `json:"stock"`
}
