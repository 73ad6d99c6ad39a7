package domain

import (
	"context"
	"database/sql"
	"time"

	"comptoir/internal/models"

	"github.com/shopspring/decimal"
)

type Repository interface {
	RunInTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error

	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetAllCustomers(ctx context.Context) ([]*models.Customer, error)
	SearchCustomers(ctx context.Context, term string) ([]*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, patch models.CustomerPatch) (int64, error)
	DeleteCustomer(ctx context.Context, id int64) (int64, error)

	CreateResource(ctx context.Context, resource *models.Resource) error
	GetResourceByID(ctx context.Context, id int64) (*models.Resource, error)
	GetAllResources(ctx context.Context) ([]*models.Resource, error)
	GetResourcesByCategory(ctx context.Context, category string) ([]*models.Resource, error)
	GetCategories(ctx context.Context) ([]string, error)
	SearchResources(ctx context.Context, term string) ([]*models.Resource, error)
	UpdateResource(ctx context.Context, id int64, patch models.ResourcePatch) (int64, error)
	SetStock(ctx context.Context, id int64, stock int64) (int64, error)
	IncreaseStock(ctx context.Context, id int64, quantity int64) (int64, error)
	DecreaseStock(ctx context.Context, id int64, quantity int64) (int64, error)
	DeleteResource(ctx context.Context, id int64) (int64, error)

	InsertTransactionTx(ctx context.Context, tx *sql.Tx, rec *models.TransactionRecord) error
	GetResourceTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Resource, error)
	DecreaseStockTx(ctx context.Context, tx *sql.Tx, id, quantity int64) (int64, error)
	CountOverlappingTx(ctx context.Context, tx *sql.Tx, resourceID int64, day time.Time, startHour, endHour int64) (int, error)
	GetTransaction(ctx context.Context, id int64) (*models.TransactionRecord, error)
	GetAllTransactions(ctx context.Context) ([]*models.TransactionRecord, error)
	GetTransactionsByCustomer(ctx context.Context, customerID int64) ([]*models.TransactionRecord, error)
	GetTransactionsByResource(ctx context.Context, resourceID int64) ([]*models.TransactionRecord, error)
	GetTransactionsByDateRange(ctx context.Context, start, end time.Time) ([]*models.TransactionRecord, error)
	GetRecentTransactions(ctx context.Context, limit int) ([]*models.TransactionRecord, error)
	UpdateTransactionStatus(ctx context.Context, id int64, status string) (int64, error)
}

// AggregateSource exposes the grouped read projections the report engine
// is built on.
type AggregateSource interface {
	GetGlobalTotals(ctx context.Context) (*models.GlobalTotals, error)
	GetSalesByCategory(ctx context.Context) ([]*models.CategorySales, error)
	GetSalesByCustomer(ctx context.Context) ([]*models.CustomerSales, error)
	GetVolumeByMonth(ctx context.Context) ([]*models.PeriodVolume, error)
	GetVolumeByDay(ctx context.Context, year, month int) ([]*models.PeriodVolume, error)
	GetResourceUsage(ctx context.Context, start, end string) ([]*models.ResourceUsage, error)
	GetResourceSales(ctx context.Context) ([]*models.ResourceSales, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type CustomerService interface {
	RegisterCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	SearchCustomers(ctx context.Context, term string) ([]*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, patch models.CustomerPatch) (int64, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type ResourceService interface {
	AddResource(ctx context.Context, resource *models.Resource) error
	GetResource(ctx context.Context, id int64) (*models.Resource, error)
	ListResources(ctx context.Context) ([]*models.Resource, error)
	ListResourcesByCategory(ctx context.Context, category string) ([]*models.Resource, error)
	ListCategories(ctx context.Context) ([]string, error)
	SearchResources(ctx context.Context, term string) ([]*models.Resource, error)
	UpdateResource(ctx context.Context, id int64, patch models.ResourcePatch) (int64, error)
	AdjustStock(ctx context.Context, id int64, delta int64) error
	SetStockLevel(ctx context.Context, id int64, stock int64) error
	DeleteResource(ctx context.Context, id int64) error
}

type SalesService interface {
	RecordSale(ctx context.Context, customerID, resourceID int64, quantity int) (*models.TransactionRecord, error)
	GetTransaction(ctx context.Context, id int64) (*models.TransactionRecord, error)
	ListTransactions(ctx context.Context) ([]*models.TransactionRecord, error)
	ListTransactionsByCustomer(ctx context.Context, customerID int64) ([]*models.TransactionRecord, error)
	ListRecentTransactions(ctx context.Context, limit int) ([]*models.TransactionRecord, error)
	CustomerRevenue(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

type ReservationService interface {
	CreateReservation(ctx context.Context, customerID, resourceID int64, day time.Time, startHour, hours int) (*models.TransactionRecord, error)
	ConfirmReservation(ctx context.Context, id int64) error
	HoldReservation(ctx context.Context, id int64) error
	CancelReservation(ctx context.Context, id int64) error
	CompleteReservation(ctx context.Context, id int64) error
}
