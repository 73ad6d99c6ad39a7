package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"comptoir/internal/models"
)

const transactionSelect = `
    SELECT t.id, t.customer_id, t.resource_id, t.quantity, t.unit_price,
           t.total_amount, t.recorded_at, t.start_hour, t.status,
           c.last_name || ' ' || c.first_name AS customer_name,
           r.name AS resource_name,
           COALESCE(r.category, '') AS category
    FROM transactions t
    INNER JOIN customers c ON t.customer_id = c.id
    INNER JOIN resources r ON t.resource_id = r.id`

// InsertTransactionTx inserts a record inside the supplied transaction.
// The caller owns the price snapshot and the computed total.
func (db *DB) InsertTransactionTx(ctx context.Context, tx *sql.Tx, rec *models.TransactionRecord) error {
	query := `INSERT INTO transactions (
                customer_id, resource_id, quantity, unit_price,
                total_amount, recorded_at, start_hour, status
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	result, err := tx.ExecContext(ctx, query,
		rec.CustomerID,
		rec.ResourceID,
		rec.Quantity,
		rec.UnitPrice,
		rec.Total,
		rec.RecordedAt,
		rec.StartHour,
		rec.Status,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// GetResourceTx reads a resource under the supplied transaction so the
// availability check and the write see the same state.
func (db *DB) GetResourceTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = ?`
	var r models.Resource
	var category sql.NullString
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.Name, &r.Kind, &category, &r.UnitPrice, &r.Stock, &r.Capacity, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource in tx: %w", err)
	}
	r.Category = category.String
	return &r, nil
}

// DecreaseStockTx decrements stock inside the supplied transaction with the
// same non-negative guard as DecreaseStock.
func (db *DB) DecreaseStockTx(ctx context.Context, tx *sql.Tx, id, quantity int64) (int64, error) {
	result, err := tx.ExecContext(ctx,
		`UPDATE resources SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		quantity, id, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to decrease stock in tx: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// CountOverlappingTx counts confirmed or pending reservations for the
// resource on the given day whose [start_hour, start_hour+quantity) window
// intersects [startHour, endHour).
func (db *DB) CountOverlappingTx(ctx context.Context, tx *sql.Tx, resourceID int64, day time.Time, startHour, endHour int64) (int, error) {
	query := `SELECT COUNT(*) FROM transactions
              WHERE resource_id = ?
                AND date(recorded_at) = date(?)
                AND status IN (?, ?)
                AND start_hour < ?
                AND start_hour + quantity > ?`
	var count int
	err := tx.QueryRowContext(ctx, query,
		resourceID,
		day.Format("2006-01-02"),
		models.StatusConfirmed, models.StatusPending,
		endHour, startHour,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}
	return count, nil
}

func (db *DB) GetTransaction(ctx context.Context, id int64) (*models.TransactionRecord, error) {
	query := transactionSelect + ` WHERE t.id = ?`
	rec, err := db.scanTransaction(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return rec, nil
}

func (db *DB) GetAllTransactions(ctx context.Context) ([]*models.TransactionRecord, error) {
	query := transactionSelect + ` ORDER BY t.recorded_at DESC, t.id DESC`
	return db.queryTransactions(ctx, query)
}

func (db *DB) GetTransactionsByCustomer(ctx context.Context, customerID int64) ([]*models.TransactionRecord, error) {
	query := transactionSelect + ` WHERE t.customer_id = ? ORDER BY t.recorded_at DESC, t.id DESC`
	return db.queryTransactions(ctx, query, customerID)
}

func (db *DB) GetTransactionsByResource(ctx context.Context, resourceID int64) ([]*models.TransactionRecord, error) {
	query := transactionSelect + ` WHERE t.resource_id = ? ORDER BY t.recorded_at DESC, t.id DESC`
	return db.queryTransactions(ctx, query, resourceID)
}

func (db *DB) GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]*models.TransactionRecord, error) {
	query := transactionSelect + `
        WHERE date(t.recorded_at) BETWEEN ? AND ?
        ORDER BY t.recorded_at DESC, t.id DESC`
	return db.queryTransactions(ctx, query, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func (db *DB) GetRecentTransactions(ctx context.Context, limit int) ([]*models.TransactionRecord, error) {
	query := transactionSelect + ` ORDER BY t.recorded_at DESC, t.id DESC LIMIT ?`
	return db.queryTransactions(ctx, query, limit)
}

// UpdateTransactionStatus changes a reservation's status. Amounts are never
// touched; zero affected rows means the record does not exist.
func (db *DB) UpdateTransactionStatus(ctx context.Context, id int64, status string) (int64, error) {
	if !models.ValidStatus(status) {
		return 0, ErrInvalidStatus
	}
	result, err := db.ExecContext(ctx,
		`UPDATE transactions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update transaction status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

func (db *DB) CountTransactions(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (db *DB) scanTransaction(row rowScanner) (*models.TransactionRecord, error) {
	rec := &models.TransactionRecord{}
	err := row.Scan(
		&rec.ID, &rec.CustomerID, &rec.ResourceID, &rec.Quantity, &rec.UnitPrice,
		&rec.Total, &rec.RecordedAt, &rec.StartHour, &rec.Status,
		&rec.CustomerName, &rec.ResourceName, &rec.Category,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (db *DB) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*models.TransactionRecord, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []*models.TransactionRecord
	for rows.Next() {
		rec, err := db.scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return records, nil
}
