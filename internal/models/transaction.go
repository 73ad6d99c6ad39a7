package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is the immutable ledger entry linking a customer and a
// resource. Quantity is units sold for a product transaction and duration
// in hours for a space reservation. UnitPrice is snapshotted at recording
// time and never re-read from the resource; TotalAmount is always computed
// server-side as quantity * unit price.
type TransactionRecord struct {
	ID         int64           `json:"id"`
	CustomerID int64           `json:"customer_id"`
	ResourceID int64           `json:"resource_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Total      decimal.Decimal `json:"total_amount"`
	RecordedAt time.Time       `json:"recorded_at"`
	// StartHour is only meaningful for space reservations (0-23).
	StartHour int64  `json:"start_hour,omitempty"`
	Status    string `json:"status"`

	// Denormalized join fields populated by list queries.
	CustomerName string `json:"customer_name,omitempty"`
	ResourceName string `json:"resource_name,omitempty"`
	Category     string `json:"category,omitempty"`
}

// EndHour returns the exclusive end of a reservation window.
func (t *TransactionRecord) EndHour() int64 {
	return t.StartHour + t.Quantity
}
