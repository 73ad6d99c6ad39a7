package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Resource is the finite priced asset being transacted against: a stocked
// product sold by unit, or a bookable space rented by the hour.
type Resource struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"` // product, space
	Category  string          `json:"category,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"` // price per unit or hourly rate
	Stock     int64           `json:"stock"`      // units on hand (product) or seats (space)
	Capacity  int64           `json:"capacity,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (r *Resource) IsProduct() bool { return r.Kind == KindProduct }
func (r *Resource) IsSpace() bool   { return r.Kind == KindSpace }

// ResourcePatch carries a partial update: nil fields are left unchanged.
type ResourcePatch struct {
	Name      *string
	Category  *string
	UnitPrice *decimal.Decimal
	Stock     *int64
	Capacity  *int64
}

func (p ResourcePatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.UnitPrice == nil &&
		p.Stock == nil && p.Capacity == nil
}
