package models

import "time"

type Customer struct {
	ID        int64     `json:"id"`
	LastName  string    `json:"last_name"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FullName returns "LastName FirstName" the way reports display customers.
func (c *Customer) FullName() string {
	return c.LastName + " " + c.FirstName
}

// CustomerPatch carries a partial update: nil fields are left unchanged.
type CustomerPatch struct {
	LastName  *string
	FirstName *string
	Email     *string
	Phone     *string
	City      *string
}

// IsEmpty reports whether no field was supplied.
func (p CustomerPatch) IsEmpty() bool {
	return p.LastName == nil && p.FirstName == nil && p.Email == nil &&
		p.Phone == nil && p.City == nil
}
