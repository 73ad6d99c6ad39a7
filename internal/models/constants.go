package models

const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	KindProduct = "product"
	KindSpace   = "space"
)

const (
	// DefaultHoursPerDay bookable hours per business day for occupancy
	DefaultHoursPerDay = 10

	// DefaultBusinessDays business days in a reporting window
	DefaultBusinessDays = 20

	// DefaultExportIntervalSeconds between report workbook regenerations
	DefaultExportIntervalSeconds = 3600
)

// ValidStatus reports whether s belongs to the closed reservation status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}
