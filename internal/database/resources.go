package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"comptoir/internal/models"
)

const resourceColumns = `id, name, kind, category, unit_price, stock, capacity, created_at`

func (db *DB) CreateResource(ctx context.Context, resource *models.Resource) error {
	query := `INSERT INTO resources (name, kind, category, unit_price, stock, capacity, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		resource.Name,
		resource.Kind,
		resource.Category,
		resource.UnitPrice,
		resource.Stock,
		resource.Capacity,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	resource.ID = id
	resource.CreatedAt = now
	return nil
}

func (db *DB) GetResourceByID(ctx context.Context, id int64) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	var r models.Resource
	var category sql.NullString
	err := db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.Name, &r.Kind, &category, &r.UnitPrice, &r.Stock, &r.Capacity, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	r.Category = category.String
	return &r, nil
}

func (db *DB) GetAllResources(ctx context.Context) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources ORDER BY category, name`
	return db.queryResources(ctx, query)
}

func (db *DB) GetResourcesByCategory(ctx context.Context, category string) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE category = ? ORDER BY name`
	return db.queryResources(ctx, query, category)
}

func (db *DB) GetCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM resources
              WHERE category IS NOT NULL AND category != '' ORDER BY category`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// SearchResources matches the term case-insensitively against name and
// category.
func (db *DB) SearchResources(ctx context.Context, term string) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources
              WHERE name LIKE ? OR category LIKE ? ORDER BY name`
	pattern := "%" + term + "%"
	return db.queryResources(ctx, query, pattern, pattern)
}

func (db *DB) queryResources(ctx context.Context, query string, args ...interface{}) ([]*models.Resource, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	var resources []*models.Resource
	for rows.Next() {
		r := &models.Resource{}
		var category sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &r.Kind, &category, &r.UnitPrice, &r.Stock, &r.Capacity, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		r.Category = category.String
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resources: %w", err)
	}
	return resources, nil
}

// UpdateResource applies a partial patch; empty patch affects zero rows.
func (db *DB) UpdateResource(ctx context.Context, id int64, patch models.ResourcePatch) (int64, error) {
	var fields []string
	var args []interface{}

	if patch.Name != nil {
		fields = append(fields, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Category != nil {
		fields = append(fields, "category = ?")
		args = append(args, *patch.Category)
	}
	if patch.UnitPrice != nil {
		fields = append(fields, "unit_price = ?")
		args = append(args, *patch.UnitPrice)
	}
	if patch.Stock != nil {
		fields = append(fields, "stock = ?")
		args = append(args, *patch.Stock)
	}
	if patch.Capacity != nil {
		fields = append(fields, "capacity = ?")
		args = append(args, *patch.Capacity)
	}

	if len(fields) == 0 {
		return 0, nil
	}

	args = append(args, id)
	query := "UPDATE resources SET " + strings.Join(fields, ", ") + " WHERE id = ?"
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update resource: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (db *DB) SetStock(ctx context.Context, id int64, stock int64) (int64, error) {
	result, err := db.ExecContext(ctx, `UPDATE resources SET stock = ? WHERE id = ?`, stock, id)
	if err != nil {
		return 0, fmt.Errorf("failed to set stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (db *DB) IncreaseStock(ctx context.Context, id int64, quantity int64) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE resources SET stock = stock + ? WHERE id = ?`, quantity, id)
	if err != nil {
		return 0, fmt.Errorf("failed to increase stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// DecreaseStock is guarded so the value can never go negative: zero rows
// affected means the guard rejected the decrement.
func (db *DB) DecreaseStock(ctx context.Context, id int64, quantity int64) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE resources SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		quantity, id, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to decrease stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (db *DB) DeleteResource(ctx context.Context, id int64) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
