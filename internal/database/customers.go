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

const customerColumns = `id, last_name, first_name, email, phone, city, created_at`

func (db *DB) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `INSERT INTO customers (last_name, first_name, email, phone, city, created_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		customer.LastName,
		customer.FirstName,
		customer.Email,
		customer.Phone,
		customer.City,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	customer.ID = id
	customer.CreatedAt = now
	return nil
}

func (db *DB) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	return db.queryCustomer(ctx, query, id)
}

func (db *DB) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = ?`
	return db.queryCustomer(ctx, query, email)
}

func (db *DB) queryCustomer(ctx context.Context, query string, arg interface{}) (*models.Customer, error) {
	var c models.Customer
	var phone, city sql.NullString
	err := db.QueryRowContext(ctx, query, arg).Scan(
		&c.ID, &c.LastName, &c.FirstName, &c.Email, &phone, &city, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	c.Phone = phone.String
	c.City = city.String
	return &c, nil
}

func (db *DB) GetAllCustomers(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY last_name, first_name`
	return db.queryCustomers(ctx, query)
}

// SearchCustomers matches the term case-insensitively against name, email
// and city fields.
func (db *DB) SearchCustomers(ctx context.Context, term string) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
              WHERE last_name LIKE ? OR first_name LIKE ? OR email LIKE ? OR city LIKE ?
              ORDER BY last_name, first_name`
	pattern := "%" + term + "%"
	return db.queryCustomers(ctx, query, pattern, pattern, pattern, pattern)
}

func (db *DB) queryCustomers(ctx context.Context, query string, args ...interface{}) ([]*models.Customer, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		var phone, city sql.NullString
		if err := rows.Scan(&c.ID, &c.LastName, &c.FirstName, &c.Email, &phone, &city, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.Phone = phone.String
		c.City = city.String
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer applies a partial patch: only non-nil fields end up in the
// SET clause. An empty patch affects zero rows and is not an error.
func (db *DB) UpdateCustomer(ctx context.Context, id int64, patch models.CustomerPatch) (int64, error) {
	var fields []string
	var args []interface{}

	if patch.LastName != nil {
		fields = append(fields, "last_name = ?")
		args = append(args, *patch.LastName)
	}
	if patch.FirstName != nil {
		fields = append(fields, "first_name = ?")
		args = append(args, *patch.FirstName)
	}
	if patch.Email != nil {
		fields = append(fields, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.Phone != nil {
		fields = append(fields, "phone = ?")
		args = append(args, *patch.Phone)
	}
	if patch.City != nil {
		fields = append(fields, "city = ?")
		args = append(args, *patch.City)
	}

	if len(fields) == 0 {
		return 0, nil
	}

	args = append(args, id)
	query := "UPDATE customers SET " + strings.Join(fields, ", ") + " WHERE id = ?"
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update customer: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// DeleteCustomer removes the row and reports how many rows went away.
// Referential-integrity policy lives in the service layer; a foreign key
// rejection surfaces here as the raw store error.
func (db *DB) DeleteCustomer(ctx context.Context, id int64) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (db *DB) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}
