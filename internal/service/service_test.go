package service

import (
	"context"
	"testing"

	"comptoir/internal/database"
	"comptoir/internal/events"
	"comptoir/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// The services are exercised against a real in-memory store so stock
// guards, unique indexes and rollbacks behave exactly as in production.
func setupTestDB(t *testing.T) *database.DB {
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func newServices(t *testing.T) (*database.DB, *CustomerService, *ResourceService, *SalesService, *ReservationService) {
	db := setupTestDB(t)
	bus := events.NewEventBus()
	logger := testLogger()
	return db,
		NewCustomerService(db, bus, logger),
		NewResourceService(db, bus, logger),
		NewSalesService(db, bus, logger),
		NewReservationService(db, bus, logger)
}

func registerCustomer(t *testing.T, svc *CustomerService, lastName, firstName, email string) *models.Customer {
	t.Helper()
	c := &models.Customer{LastName: lastName, FirstName: firstName, Email: email}
	require.NoError(t, svc.RegisterCustomer(context.Background(), c))
	return c
}

func addResource(t *testing.T, svc *ResourceService, name, kind, price string, stock int64) *models.Resource {
	t.Helper()
	r := &models.Resource{
		Name:      name,
		Kind:      kind,
		UnitPrice: decimal.RequireFromString(price),
		Stock:     stock,
	}
	require.NoError(t, svc.AddResource(context.Background(), r))
	return r
}
