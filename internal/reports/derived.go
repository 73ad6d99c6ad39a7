package reports

import (
	"context"
	"math"
	"sort"
	"time"

	"comptoir/internal/models"
)

// Derived indicators. Every score is rounded to two decimals and every
// division-by-zero case resolves to zero rather than an error or a
// dropped row.

type OccupancyRow struct {
	ResourceID  int64   `json:"resource_id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	BookedHours int64   `json:"booked_hours"`
	Rate        float64 `json:"rate"`
}

type PopularityRow struct {
	ResourceID int64   `json:"resource_id"`
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Revenue    float64 `json:"revenue"`
	Score      float64 `json:"score"`
}

type LoyaltyRow struct {
	CustomerID   int64   `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Count        int64   `json:"count"`
	Total        float64 `json:"total"`
	Average      float64 `json:"average"`
	Score        float64 `json:"score"`
}

type ConversionRow struct {
	ResourceID int64   `json:"resource_id"`
	Name       string  `json:"name"`
	Sold       int64   `json:"sold"`
	Stock      int64   `json:"stock"`
	Rate       float64 `json:"rate"`
}

// Occupancy rates spaces by booked hours against the bookable capacity of
// the month containing ref: hours_per_day * business_days.
func (e *Engine) Occupancy(ctx context.Context, ref time.Time) ([]*OccupancyRow, error) {
	start, end := monthWindow(ref)
	usage, err := e.source.GetResourceUsage(ctx, start, end)
	if err != nil {
		return nil, err
	}

	available := float64(e.hoursPerDay * e.businessDays)
	rows := make([]*OccupancyRow, 0, len(usage))
	for _, u := range usage {
		rate := 0.0
		if available > 0 {
			rate = round2(float64(u.BookedHours) / available * 100)
		}
		rows = append(rows, &OccupancyRow{
			ResourceID:  u.ResourceID,
			Name:        u.Name,
			Category:    u.Category,
			BookedHours: u.BookedHours,
			Rate:        rate,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate > rows[j].Rate })
	return rows, nil
}

// Popularity scores every resource as count*10 + revenue/100.
func (e *Engine) Popularity(ctx context.Context) ([]*PopularityRow, error) {
	sales, err := e.source.GetResourceSales(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*PopularityRow, 0, len(sales))
	for _, s := range sales {
		revenue := s.Revenue.InexactFloat64()
		rows = append(rows, &PopularityRow{
			ResourceID: s.ResourceID,
			Name:       s.Name,
			Count:      s.Count,
			Revenue:    round2(revenue),
			Score:      round2(float64(s.Count)*10 + revenue/100),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Count > rows[j].Count
	})
	return rows, nil
}

// Loyalty scores customers with at least one transaction as
// count*10 + average amount/10. Customers without history are absent.
func (e *Engine) Loyalty(ctx context.Context) ([]*LoyaltyRow, error) {
	sales, err := e.source.GetSalesByCustomer(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*LoyaltyRow, 0, len(sales))
	for _, s := range sales {
		avg := s.Average.InexactFloat64()
		rows = append(rows, &LoyaltyRow{
			CustomerID:   s.CustomerID,
			CustomerName: s.CustomerName,
			Count:        s.Count,
			Total:        round2(s.Total.InexactFloat64()),
			Average:      round2(avg),
			Score:        round2(float64(s.Count)*10 + avg/10),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Count > rows[j].Count
	})
	return rows, nil
}

// Conversion rates each product as sold / (sold + stock). A product with
// no sales and no stock still gets a row, at zero.
func (e *Engine) Conversion(ctx context.Context) ([]*ConversionRow, error) {
	sales, err := e.source.GetResourceSales(ctx)
	if err != nil {
		return nil, err
	}

	var rows []*ConversionRow
	for _, s := range sales {
		if s.Kind != models.KindProduct {
			continue
		}
		rate := 0.0
		if s.QuantitySold+s.Stock > 0 {
			rate = round2(float64(s.QuantitySold) / float64(s.QuantitySold+s.Stock) * 100)
		}
		rows = append(rows, &ConversionRow{
			ResourceID: s.ResourceID,
			Name:       s.Name,
			Sold:       s.QuantitySold,
			Stock:      s.Stock,
			Rate:       rate,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate > rows[j].Rate })
	return rows, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
