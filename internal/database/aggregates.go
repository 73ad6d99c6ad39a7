package database

import (
	"context"
	"fmt"

	"comptoir/internal/models"
)

// Aggregate read projections feeding the indicator engine. Cancelled
// transactions never count toward revenue or usage. No business rules
// here; ordering and grouping are part of the projection contract.

func (db *DB) GetGlobalTotals(ctx context.Context) (*models.GlobalTotals, error) {
	query := `SELECT COUNT(*),
                     COALESCE(SUM(quantity), 0),
                     COALESCE(SUM(total_amount), 0),
                     COALESCE(AVG(total_amount), 0)
              FROM transactions WHERE status != ?`
	var t models.GlobalTotals
	err := db.QueryRowContext(ctx, query, models.StatusCancelled).Scan(
		&t.Transactions, &t.Quantity, &t.Revenue, &t.AverageAmount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get global totals: %w", err)
	}
	return &t, nil
}

func (db *DB) GetSalesByCategory(ctx context.Context) ([]*models.CategorySales, error) {
	query := `SELECT COALESCE(r.category, ''),
                     COUNT(t.id),
                     COALESCE(SUM(t.quantity), 0),
                     COALESCE(SUM(t.total_amount), 0),
                     COALESCE(AVG(t.total_amount), 0)
              FROM transactions t
              INNER JOIN resources r ON t.resource_id = r.id
              WHERE t.status != ?
              GROUP BY r.category
              ORDER BY SUM(t.total_amount) DESC`
	rows, err := db.QueryContext(ctx, query, models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by category: %w", err)
	}
	defer rows.Close()

	var sales []*models.CategorySales
	for rows.Next() {
		s := &models.CategorySales{}
		if err := rows.Scan(&s.Category, &s.Count, &s.Quantity, &s.Revenue, &s.Average); err != nil {
			return nil, fmt.Errorf("failed to scan category sales: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// GetSalesByCustomer ranks customers with at least one non-cancelled
// transaction by count descending, then revenue descending.
func (db *DB) GetSalesByCustomer(ctx context.Context) ([]*models.CustomerSales, error) {
	query := `SELECT c.id,
                     c.last_name || ' ' || c.first_name,
                     c.email,
                     COALESCE(c.city, ''),
                     COUNT(t.id),
                     COALESCE(SUM(t.total_amount), 0),
                     COALESCE(AVG(t.total_amount), 0)
              FROM customers c
              INNER JOIN transactions t ON c.id = t.customer_id
              WHERE t.status != ?
              GROUP BY c.id, c.last_name, c.first_name, c.email, c.city
              HAVING COUNT(t.id) > 0
              ORDER BY COUNT(t.id) DESC, SUM(t.total_amount) DESC`
	rows, err := db.QueryContext(ctx, query, models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by customer: %w", err)
	}
	defer rows.Close()

	var sales []*models.CustomerSales
	for rows.Next() {
		s := &models.CustomerSales{}
		if err := rows.Scan(&s.CustomerID, &s.CustomerName, &s.Email, &s.City, &s.Count, &s.Total, &s.Average); err != nil {
			return nil, fmt.Errorf("failed to scan customer sales: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (db *DB) GetVolumeByMonth(ctx context.Context) ([]*models.PeriodVolume, error) {
	query := `SELECT strftime('%Y-%m', recorded_at),
                     COUNT(id),
                     COALESCE(SUM(quantity), 0),
                     COALESCE(SUM(total_amount), 0)
              FROM transactions
              WHERE status != ?
              GROUP BY strftime('%Y-%m', recorded_at)
              ORDER BY strftime('%Y-%m', recorded_at) DESC`
	return db.queryPeriodVolumes(ctx, query, models.StatusCancelled)
}

// GetVolumeByDay is the day-by-day drilldown for a single month.
func (db *DB) GetVolumeByDay(ctx context.Context, year, month int) ([]*models.PeriodVolume, error) {
	query := `SELECT date(recorded_at),
                     COUNT(id),
                     COALESCE(SUM(quantity), 0),
                     COALESCE(SUM(total_amount), 0)
              FROM transactions
              WHERE strftime('%Y', recorded_at) = ?
                AND strftime('%m', recorded_at) = ?
                AND status != ?
              GROUP BY date(recorded_at)
              ORDER BY date(recorded_at)`
	return db.queryPeriodVolumes(ctx, query,
		fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), models.StatusCancelled)
}

func (db *DB) queryPeriodVolumes(ctx context.Context, query string, args ...interface{}) ([]*models.PeriodVolume, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get period volumes: %w", err)
	}
	defer rows.Close()

	var volumes []*models.PeriodVolume
	for rows.Next() {
		v := &models.PeriodVolume{}
		if err := rows.Scan(&v.Period, &v.Count, &v.Quantity, &v.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan period volume: %w", err)
		}
		volumes = append(volumes, v)
	}
	return volumes, rows.Err()
}

// GetResourceUsage returns booked hours per space over the window.
// Spaces without reservations appear with zero hours.
func (db *DB) GetResourceUsage(ctx context.Context, start, end string) ([]*models.ResourceUsage, error) {
	query := `SELECT r.id, r.name, r.kind, COALESCE(r.category, ''),
                     COALESCE(SUM(t.quantity), 0)
              FROM resources r
              LEFT JOIN transactions t ON r.id = t.resource_id
                  AND t.status != ?
                  AND date(t.recorded_at) BETWEEN ? AND ?
              WHERE r.kind = ?
              GROUP BY r.id, r.name, r.kind, r.category
              ORDER BY r.name`
	rows, err := db.QueryContext(ctx, query, models.StatusCancelled, start, end, models.KindSpace)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource usage: %w", err)
	}
	defer rows.Close()

	var usage []*models.ResourceUsage
	for rows.Next() {
		u := &models.ResourceUsage{}
		if err := rows.Scan(&u.ResourceID, &u.Name, &u.Kind, &u.Category, &u.BookedHours); err != nil {
			return nil, fmt.Errorf("failed to scan resource usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// GetResourceSales returns per-resource transaction totals next to the
// current stock level. Resources without transactions appear with zeros,
// so a dead product still shows up in the conversion report.
func (db *DB) GetResourceSales(ctx context.Context) ([]*models.ResourceSales, error) {
	query := `SELECT r.id, r.name, r.kind, COALESCE(r.category, ''),
                     COUNT(t.id),
                     COALESCE(SUM(t.quantity), 0),
                     COALESCE(SUM(t.total_amount), 0),
                     r.stock
              FROM resources r
              LEFT JOIN transactions t ON r.id = t.resource_id AND t.status != ?
              GROUP BY r.id, r.name, r.kind, r.category, r.stock
              ORDER BY r.name`
	rows, err := db.QueryContext(ctx, query, models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource sales: %w", err)
	}
	defer rows.Close()

	var sales []*models.ResourceSales
	for rows.Next() {
		s := &models.ResourceSales{}
		if err := rows.Scan(&s.ResourceID, &s.Name, &s.Kind, &s.Category, &s.Count, &s.QuantitySold, &s.Revenue, &s.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan resource sales: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
