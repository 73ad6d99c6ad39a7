package database

import "errors"

// Domain errors surfaced to callers. The service layer is the only place
// raw store errors get translated into these; callers branch with errors.Is.
var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrResourceNotFound    = errors.New("resource not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("unit price must be positive")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidStatus   = errors.New("unknown transaction status")
	ErrInvalidHours    = errors.New("reservation window outside business hours")
	ErrMissingField    = errors.New("required field is empty")
	ErrNegativeStock   = errors.New("stock cannot be negative")

	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotBookable       = errors.New("resource is not a bookable space")
	ErrNotSellable       = errors.New("resource is not sold by unit")
	ErrSlotUnavailable   = errors.New("time slot not available")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrHasTransactions   = errors.New("entity has associated transactions")
)
