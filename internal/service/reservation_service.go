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

// ReservationService books spaces by the hour. The overlap check and the
// ledger insert run inside one transaction, so two bookings for the same
// window cannot both land.
type ReservationService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewReservationService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateReservation books a space for hours starting at startHour on the
// given day. The reservation starts out confirmed; the hourly rate is
// snapshotted and the total computed as hours * rate.
func (s *ReservationService) CreateReservation(ctx context.Context, customerID, resourceID int64, day time.Time, startHour, hours int) (*models.TransactionRecord, error) {
	if hours <= 0 {
		return nil, database.ErrInvalidQuantity
	}
	if startHour < 0 || startHour > 23 || startHour+hours > 24 {
		return nil, database.ErrInvalidHours
	}

	customer, err := s.repo.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	recordedAt := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	rec := &models.TransactionRecord{
		CustomerID: customerID,
		ResourceID: resourceID,
		Quantity:   int64(hours),
		RecordedAt: recordedAt,
		StartHour:  int64(startHour),
		Status:     models.StatusConfirmed,
	}

	err = s.repo.RunInTransaction(ctx, func(tx *sql.Tx) error {
		resource, err := s.repo.GetResourceTx(ctx, tx, resourceID)
		if err != nil {
			return err
		}
		if !resource.IsSpace() {
			return database.ErrNotBookable
		}

		overlapping, err := s.repo.CountOverlappingTx(ctx, tx, resourceID, day, rec.StartHour, rec.EndHour())
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return database.ErrSlotUnavailable
		}

		rec.UnitPrice = resource.UnitPrice
		rec.Total = resource.UnitPrice.Mul(decimal.NewFromInt(int64(hours)))
		rec.ResourceName = resource.Name
		rec.Category = resource.Category

		return s.repo.InsertTransactionTx(ctx, tx, rec)
	})
	if err != nil {
		metrics.IncTransaction(models.KindSpace, "rejected")
		return nil, err
	}

	rec.CustomerName = customer.FullName()
	metrics.IncTransaction(models.KindSpace, "ok")

	s.logger.Info().
		Int64("transaction_id", rec.ID).
		Int64("customer_id", customerID).
		Int64("resource_id", resourceID).
		Int("start_hour", startHour).
		Int("hours", hours).
		Msg("reservation created")

	s.publishTransactionEvent(events.EventReservationCreated, rec)
	return rec, nil
}

func (s *ReservationService) ConfirmReservation(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.StatusConfirmed, events.EventReservationConfirmed, models.StatusPending)
}

// HoldReservation puts a confirmed reservation back on hold. A pending
// reservation keeps blocking its window until confirmed or cancelled.
func (s *ReservationService) HoldReservation(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.StatusPending, events.EventReservationHeld, models.StatusConfirmed)
}

func (s *ReservationService) CancelReservation(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.StatusCancelled, events.EventReservationCancelled, models.StatusPending, models.StatusConfirmed)
}

func (s *ReservationService) CompleteReservation(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.StatusCompleted, events.EventReservationCompleted, models.StatusConfirmed)
}

// transition moves a reservation to target if its current status is one
// of the allowed sources. Cancelled and completed are terminal.
func (s *ReservationService) transition(ctx context.Context, id int64, target, eventType string, allowedFrom ...string) error {
	rec, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	allowed := false
	for _, from := range allowedFrom {
		if rec.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return database.ErrInvalidStatus
	}

	rows, err := s.repo.UpdateTransactionStatus(ctx, id, target)
	if err != nil {
		return err
	}
	if rows == 0 {
		return database.ErrTransactionNotFound
	}

	rec.Status = target
	s.logger.Info().Int64("transaction_id", id).Str("status", target).Msg("reservation status changed")
	s.publishTransactionEvent(eventType, rec)
	return nil
}

func (s *ReservationService) publishTransactionEvent(eventType string, rec *models.TransactionRecord) {
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
