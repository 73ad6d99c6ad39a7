package service

import (
	"context"
	"database/sql"
	"time"

	"comptoir/internal/database"
	"comptoir/internal/domain"
	"comptoir/internal/events"
	"comptoir/internal/metrics"
	"comptoir/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SalesService records product sales. A sale writes the ledger entry and
// decrements stock inside one transaction, so a failure at any point
// leaves both tables untouched.
type SalesService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewSalesService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *SalesService {
	return &SalesService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// RecordSale sells quantity units of a product to a customer. The unit
// price is snapshotted from the resource at recording time and the total
// is always computed here, never taken from the caller. Spaces cannot be
// sold; they go through the reservation path.
func (s *SalesService) RecordSale(ctx context.Context, customerID, resourceID int64, quantity int) (*models.TransactionRecord, error) {
	if quantity <= 0 {
		return nil, database.ErrInvalidQuantity
	}

	customer, err := s.repo.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	rec := &models.TransactionRecord{
		CustomerID: customerID,
		ResourceID: resourceID,
		Quantity:   int64(quantity),
		RecordedAt: time.Now(),
		Status:     models.StatusConfirmed,
	}

	err = s.repo.RunInTransaction(ctx, func(tx *sql.Tx) error {
		resource, err := s.repo.GetResourceTx(ctx, tx, resourceID)
		if err != nil {
			return err
		}

		// spaces are rented by the hour through the reservation path
		if !resource.IsProduct() {
			return database.ErrNotSellable
		}
		if resource.Stock < int64(quantity) {
			return database.ErrInsufficientStock
		}

		rec.UnitPrice = resource.UnitPrice
		rec.Total = resource.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		rec.ResourceName = resource.Name
		rec.Category = resource.Category

		if err := s.repo.InsertTransactionTx(ctx, tx, rec); err != nil {
			return err
		}

		rows, err := s.repo.DecreaseStockTx(ctx, tx, resourceID, int64(quantity))
		if err != nil {
			return err
		}
		if rows == 0 {
			return database.ErrInsufficientStock
		}

		return nil
	})
	if err != nil {
		metrics.IncTransaction(models.KindProduct, "rejected")
		return nil, err
	}

	rec.CustomerName = customer.FullName()
	metrics.IncTransaction(models.KindProduct, "ok")

	s.logger.Info().
		Int64("transaction_id", rec.ID).
		Int64("customer_id", customerID).
		Int64("resource_id", resourceID).
		Int("quantity", quantity).
		Str("total", rec.Total.StringFixed(2)).
		Msg("sale recorded")

	s.publishTransactionEvent(events.EventSaleRecorded, rec)
	return rec, nil
}

func (s *SalesService) GetTransaction(ctx context.Context, id int64) (*models.TransactionRecord, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *SalesService) ListTransactions(ctx context.Context) ([]*models.TransactionRecord, error) {
	return s.repo.GetAllTransactions(ctx)
}

func (s *SalesService) ListTransactionsByCustomer(ctx context.Context, customerID int64) ([]*models.TransactionRecord, error) {
	return s.repo.GetTransactionsByCustomer(ctx, customerID)
}

func (s *SalesService) ListRecentTransactions(ctx context.Context, limit int) ([]*models.TransactionRecord, error) {
	return s.repo.GetRecentTransactions(ctx, limit)
}

// CustomerRevenue sums the customer's non-cancelled transaction totals.
func (s *SalesService) CustomerRevenue(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	transactions, err := s.repo.GetTransactionsByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, t := range transactions {
		if t.Status == models.StatusCancelled {
			continue
		}
		total = total.Add(t.Total)
	}
	return total, nil
}

func (s *SalesService) publishTransactionEvent(eventType string, rec *models.TransactionRecord) {
	if s.eventBus == nil {
		return
	}

	payload := events.TransactionEventPayload{
		TransactionID: rec.ID,
		CustomerID:    rec.CustomerID,
		CustomerName:  rec.CustomerName,
		ResourceID:    rec.ResourceID,
		ResourceName:  rec.ResourceName,
		Quantity:      int(rec.Quantity),
		Total:         rec.Total,
		Status:        rec.Status,
		RecordedAt:    rec.RecordedAt,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("transaction_id", rec.ID).Msg("publish event error")
	}
}
