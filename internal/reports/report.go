package reports

import (
	"context"
	"fmt"
	"time"

	"comptoir/internal/metrics"
)

// Kind identifies one report in the closed set the engine can produce.
type Kind string

const (
	KindGlobalTotals Kind = "global_totals"
	KindByCategory   Kind = "by_category"
	KindByCustomer   Kind = "by_customer"
	KindByPeriod     Kind = "by_period"
	KindOccupancy    Kind = "occupancy"
	KindPopularity   Kind = "popularity"
	KindLoyalty      Kind = "loyalty"
	KindConversion   Kind = "conversion"
)

// Kinds lists every report kind in export order.
func Kinds() []Kind {
	return []Kind{
		KindGlobalTotals, KindByCategory, KindByCustomer, KindByPeriod,
		KindOccupancy, KindPopularity, KindLoyalty, KindConversion,
	}
}

// Params narrows a report to a window. Zero values fall back to the
// current month (occupancy) or all months (by_period).
type Params struct {
	Year  int
	Month int
}

// Report is the tabular form every kind reduces to, consumable by the
// Excel exporter without knowing which indicator it came from.
type Report struct {
	Kind    Kind
	Title   string
	Columns []string
	Rows    [][]interface{}
}

// Report builds the tabular report for a kind.
func (e *Engine) Report(ctx context.Context, kind Kind, params Params) (*Report, error) {
	var (
		r   *Report
		err error
	)

	switch kind {
	case KindGlobalTotals:
		r, err = e.globalTotalsReport(ctx)
	case KindByCategory:
		r, err = e.byCategoryReport(ctx)
	case KindByCustomer:
		r, err = e.byCustomerReport(ctx)
	case KindByPeriod:
		r, err = e.byPeriodReport(ctx, params)
	case KindOccupancy:
		r, err = e.occupancyReport(ctx, params)
	case KindPopularity:
		r, err = e.popularityReport(ctx)
	case KindLoyalty:
		r, err = e.loyaltyReport(ctx)
	case KindConversion:
		r, err = e.conversionReport(ctx)
	default:
		return nil, fmt.Errorf("unknown report kind: %s", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s report: %w", kind, err)
	}

	metrics.IncReport(string(kind))
	return r, nil
}

func (e *Engine) globalTotalsReport(ctx context.Context) (*Report, error) {
	totals, err := e.GlobalTotals(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		Kind:    KindGlobalTotals,
		Title:   "Global totals",
		Columns: []string{"Transactions", "Quantity", "Revenue", "Average amount"},
		Rows: [][]interface{}{
			{totals.Transactions, totals.Quantity, totals.Revenue.InexactFloat64(), round2(totals.AverageAmount.InexactFloat64())},
		},
	}, nil
}

func (e *Engine) byCategoryReport(ctx context.Context) (*Report, error) {
	sales, err := e.SalesByCategory(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Kind:    KindByCategory,
		Title:   "Revenue by category",
		Columns: []string{"Category", "Transactions", "Quantity", "Revenue", "Average"},
	}
	for _, s := range sales {
		r.Rows = append(r.Rows, []interface{}{
			s.Category, s.Count, s.Quantity, s.Revenue.InexactFloat64(), round2(s.Average.InexactFloat64()),
		})
	}
	return r, nil
}

func (e *Engine) byCustomerReport(ctx context.Context) (*Report, error) {
	sales, err := e.SalesByCustomer(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Kind:    KindByCustomer,
		Title:   "Customer ranking",
		Columns: []string{"Customer", "Email", "City", "Transactions", "Total", "Average"},
	}
	for _, s := range sales {
		r.Rows = append(r.Rows, []interface{}{
			s.CustomerName, s.Email, s.City, s.Count, s.Total.InexactFloat64(), round2(s.Average.InexactFloat64()),
		})
	}
	return r, nil
}

func (e *Engine) byPeriodReport(ctx context.Context, params Params) (*Report, error) {
	var (
		volumes []*periodRow
		title   string
	)

	if params.Year != 0 && params.Month != 0 {
		rows, err := e.VolumeByDay(ctx, params.Year, params.Month)
		if err != nil {
			return nil, err
		}
		title = fmt.Sprintf("Daily volume %04d-%02d", params.Year, params.Month)
		for _, v := range rows {
			volumes = append(volumes, &periodRow{v.Period, v.Count, v.Quantity, v.Revenue.InexactFloat64()})
		}
	} else {
		rows, err := e.VolumeByMonth(ctx)
		if err != nil {
			return nil, err
		}
		title = "Monthly volume"
		for _, v := range rows {
			volumes = append(volumes, &periodRow{v.Period, v.Count, v.Quantity, v.Revenue.InexactFloat64()})
		}
	}

	r := &Report{
		Kind:    KindByPeriod,
		Title:   title,
		Columns: []string{"Period", "Transactions", "Quantity", "Revenue"},
	}
	for _, v := range volumes {
		r.Rows = append(r.Rows, []interface{}{v.period, v.count, v.quantity, v.revenue})
	}
	return r, nil
}

type periodRow struct {
	period   string
	count    int64
	quantity int64
	revenue  float64
}

func (e *Engine) occupancyReport(ctx context.Context, params Params) (*Report, error) {
	ref := time.Now()
	if params.Year != 0 && params.Month != 0 {
		ref = time.Date(params.Year, time.Month(params.Month), 1, 0, 0, 0, 0, time.Local)
	}

	rows, err := e.Occupancy(ctx, ref)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Kind:    KindOccupancy,
		Title:   "Space occupancy",
		Columns: []string{"Space", "Category", "Booked hours", "Occupancy %"},
	}
	for _, o := range rows {
		r.Rows = append(r.Rows, []interface{}{o.Name, o.Category, o.BookedHours, o.Rate})
	}
	return r, nil
}

func (e *Engine) popularityReport(ctx context.Context) (*Report, error) {
	rows, err := e.Popularity(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Kind:    KindPopularity,
		Title:   "Resource popularity",
		Columns: []string{"Resource", "Transactions", "Revenue", "Score"},
	}
	for _, p := range rows {
		r.Rows = append(r.Rows, []interface{}{p.Name, p.Count, p.Revenue, p.Score})
	}
	return r, nil
}

func (e *Engine) loyaltyReport(ctx context.Context) (*Report, error) {
	rows, err := e.Loyalty(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Kind:    KindLoyalty,
		Title:   "Customer loyalty",
		Columns: []string{"Customer", "Transactions", "Total", "Average", "Score"},
	}
	for _, l := range rows {
		r.Rows = append(r.Rows, []interface{}{l.CustomerName, l.Count, l.Total, l.Average, l.Score})
	}
	return r, nil
}

func (e *Engine) conversionReport(ctx context.Context) (*Report, error) {
	rows, err := e.Conversion(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Kind:    KindConversion,
		Title:   "Stock conversion",
		Columns: []string{"Product", "Sold", "Stock", "Conversion %"},
	}
	for _, c := range rows {
		r.Rows = append(r.Rows, []interface{}{c.Name, c.Sold, c.Stock, c.Rate})
	}
	return r, nil
}
