package fixtures

import (
	"context"
	"fmt"
	"time"

	"comptoir/internal/database"
	"comptoir/internal/domain"
	"comptoir/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Services groups the write paths the seeder drives. Seeding goes through
// the service layer, so demo data obeys the same validation, snapshotting
// and stock rules as live traffic.
type Services struct {
	Customers    domain.CustomerService
	Resources    domain.ResourceService
	Sales        domain.SalesService
	Reservations domain.ReservationService
}

// Load seeds the store with demo customers, resources and transactions.
// It is a no-op when customers already exist, so restarting with the
// seed flag on does not duplicate data.
func Load(ctx context.Context, db *database.DB, svc Services, logger *zerolog.Logger) error {
	count, err := db.CountCustomers(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if count > 0 {
		logger.Info().Msg("Store already populated, skipping fixtures")
		return nil
	}

	customers := []*models.Customer{
		{LastName: "Dupont", FirstName: "Marie", Email: "marie.dupont@email.com", City: "Paris"},
		{LastName: "Martin", FirstName: "Pierre", Email: "pierre.martin@email.com", City: "Lyon"},
		{LastName: "Bernard", FirstName: "Sophie", Email: "sophie.bernard@email.com", City: "Paris"},
		{LastName: "Dubois", FirstName: "Luc", Email: "luc.dubois@email.com", City: "Marseille"},
		{LastName: "Laurent", FirstName: "Julie", Email: "julie.laurent@email.com", City: "Lyon"},
	}
	for _, c := range customers {
		if err := svc.Customers.RegisterCustomer(ctx, c); err != nil {
			return fmt.Errorf("failed to seed customer %s: %w", c.Email, err)
		}
	}

	resources := []*models.Resource{
		{Name: "Ordinateur portable", Kind: models.KindProduct, Category: "Informatique", UnitPrice: dec("899.99"), Stock: 15},
		{Name: "Souris sans fil", Kind: models.KindProduct, Category: "Informatique", UnitPrice: dec("29.99"), Stock: 50},
		{Name: "Clavier mécanique", Kind: models.KindProduct, Category: "Informatique", UnitPrice: dec("89.99"), Stock: 30},
		{Name: "Écran 24 pouces", Kind: models.KindProduct, Category: "Informatique", UnitPrice: dec("199.99"), Stock: 20},
		{Name: "Casque audio", Kind: models.KindProduct, Category: "Audio", UnitPrice: dec("79.99"), Stock: 25},
		{Name: "Webcam HD", Kind: models.KindProduct, Category: "Informatique", UnitPrice: dec("59.99"), Stock: 18},
		{Name: "Disque dur externe", Kind: models.KindProduct, Category: "Informatique", UnitPrice: dec("119.99"), Stock: 12},
		{Name: "Enceinte Bluetooth", Kind: models.KindProduct, Category: "Audio", UnitPrice: dec("49.99"), Stock: 40},
		{Name: "Salle de réunion A", Kind: models.KindSpace, Category: "Espaces", UnitPrice: dec("25.00"), Capacity: 8},
		{Name: "Salle de réunion B", Kind: models.KindSpace, Category: "Espaces", UnitPrice: dec("35.00"), Capacity: 12},
		{Name: "Poste gaming", Kind: models.KindSpace, Category: "Espaces", UnitPrice: dec("8.50"), Capacity: 1},
	}
	for _, r := range resources {
		if err := svc.Resources.AddResource(ctx, r); err != nil {
			return fmt.Errorf("failed to seed resource %s: %w", r.Name, err)
		}
	}

	sales := []struct {
		customer int
		resource int
		quantity int
	}{
		{0, 0, 2}, {1, 1, 5}, {0, 4, 1}, {2, 2, 2}, {3, 3, 1}, {1, 5, 3},
		{4, 1, 10}, {2, 6, 1}, {0, 7, 2}, {3, 0, 1}, {4, 2, 1}, {1, 4, 2},
	}
	for _, s := range sales {
		_, err := svc.Sales.RecordSale(ctx, customers[s.customer].ID, resources[s.resource].ID, s.quantity)
		if err != nil {
			return fmt.Errorf("failed to seed sale: %w", err)
		}
	}

	day := time.Now()
	bookings := []struct {
		customer  int
		resource  int
		startHour int
		hours     int
	}{
		{0, 8, 9, 2}, {1, 8, 14, 3}, {2, 9, 10, 4}, {4, 10, 16, 2},
	}
	for _, b := range bookings {
		if _, err := svc.Reservations.CreateReservation(ctx, customers[b.customer].ID, resources[b.resource].ID, day, b.startHour, b.hours); err != nil {
			return fmt.Errorf("failed to seed reservation: %w", err)
		}
	}

	logger.Info().
		Int("customers", len(customers)).
		Int("resources", len(resources)).
		Int("transactions", len(sales)+len(bookings)).
		Msg("Fixtures loaded")
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
