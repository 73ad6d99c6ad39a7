package service

import (
	"context"
	"testing"
	"time"

	"comptoir/internal/database"
	"comptoir/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDay(s string) time.Time {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return day
}

func TestCreateReservation(t *testing.T) {
	_, customers, resources, _, reservations := newServices(t)

	ctx := context.Background()
	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	room := addResource(t, resources, "Salle de réunion A", models.KindSpace, "25.00", 0)

	rec, err := reservations.CreateReservation(ctx, c.ID, room.ID, mustDay("2026-03-10"), 9, 3)
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, models.StatusConfirmed, rec.Status)
	assert.Equal(t, int64(9), rec.StartHour)
	assert.Equal(t, int64(3), rec.Quantity)
	assert.True(t, rec.Total.Equal(decimal.RequireFromString("75.00")))
	assert.Equal(t, "2026-03-10", rec.RecordedAt.Format("2006-01-02"))
}

func TestCreateReservationValidation(t *testing.T) {
	_, customers, resources, _, reservations := newServices(t)

	ctx := context.Background()
	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	room := addResource(t, resources, "Salle de réunion A", models.KindSpace, "25.00", 0)
	day := mustDay("2026-03-10")

	tests := []struct {
		name      string
		startHour int
		hours     int
		wantErr   error
	}{
		{"zero hours", 9, 0, database.ErrInvalidQuantity},
		{"negative hours", 9, -1, database.ErrInvalidQuantity},
		{"negative start", -1, 2, database.ErrInvalidHours},
		{"start past midnight", 24, 1, database.ErrInvalidHours},
		{"window past midnight", 23, 2, database.ErrInvalidHours},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reservations.CreateReservation(ctx, c.ID, room.ID, day, tt.startHour, tt.hours)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// the full-day window is the widest accepted one
	_, err := reservations.CreateReservation(ctx, c.ID, room.ID, day, 0, 24)
	require.NoError(t, err)
}

func TestCreateReservationProductNotBookable(t *testing.T) {
	_, customers, resources, _, reservations := newServices(t)

	ctx := context.Background()
	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	mouse := addResource(t, resources, "Souris sans fil", models.KindProduct, "29.99", 50)

	_, err := reservations.CreateReservation(ctx, c.ID, mouse.ID, mustDay("2026-03-10"), 9, 2)
	assert.ErrorIs(t, err, database.ErrNotBookable)
}

func TestCreateReservationOverlap(t *testing.T) {
	_, customers, resources, _, reservations := newServices(t)

	ctx := context.Background()
	marie := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	pierre := registerCustomer(t, customers, "Martin", "Pierre", "pierre.martin@email.com")
	room := addResource(t, resources, "Salle de réunion A", models.KindSpace, "25.00", 0)
	other := addResource(t, resources, "Salle de réunion B", models.KindSpace, "35.00", 0)
	day := mustDay("2026-03-10")

	first, err := reservations.CreateReservation(ctx, marie.ID, room.ID, day, 9, 3)
	require.NoError(t, err)

	_, err = reservations.CreateReservation(ctx, pierre.ID, room.ID, day, 10, 2)
	assert.ErrorIs(t, err, database.ErrSlotUnavailable)

	// a booking on hold still blocks its window
	require.NoError(t, reservations.HoldReservation(ctx, first.ID))
	_, err = reservations.CreateReservation(ctx, pierre.ID, room.ID, day, 10, 2)
	assert.ErrorIs(t, err, database.ErrSlotUnavailable)

	// adjacent windows are fine
	_, err = reservations.CreateReservation(ctx, pierre.ID, room.ID, day, 12, 2)
	require.NoError(t, err)

	// same window on another room is fine
	_, err = reservations.CreateReservation(ctx, pierre.ID, other.ID, day, 9, 3)
	require.NoError(t, err)

	// same window on another day is fine
	_, err = reservations.CreateReservation(ctx, pierre.ID, room.ID, day.AddDate(0, 0, 1), 9, 3)
	require.NoError(t, err)
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	_, customers, resources, _, reservations := newServices(t)

	ctx := context.Background()
	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	room := addResource(t, resources, "Salle de réunion A", models.KindSpace, "25.00", 0)
	day := mustDay("2026-03-10")

	first, err := reservations.CreateReservation(ctx, c.ID, room.ID, day, 9, 2)
	require.NoError(t, err)
	require.NoError(t, reservations.CancelReservation(ctx, first.ID))

	_, err = reservations.CreateReservation(ctx, c.ID, room.ID, day, 9, 2)
	assert.NoError(t, err)
}

func TestReservationLifecycle(t *testing.T) {
	_, customers, resources, _, reservations := newServices(t)

	ctx := context.Background()
	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	room := addResource(t, resources, "Salle de réunion A", models.KindSpace, "25.00", 0)
	day := mustDay("2026-03-10")

	rec, err := reservations.CreateReservation(ctx, c.ID, room.ID, day, 9, 2)
	require.NoError(t, err)

	// confirmed on creation, back on hold, confirmed again, completed
	require.NoError(t, reservations.HoldReservation(ctx, rec.ID))

	got, err := reservations.repo.GetTransaction(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)

	require.NoError(t, reservations.ConfirmReservation(ctx, rec.ID))
	require.NoError(t, reservations.CompleteReservation(ctx, rec.ID))

	got, err = reservations.repo.GetTransaction(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
}

func TestReservationInvalidTransitions(t *testing.T) {
	_, customers, resources, _, reservations := newServices(t)

	ctx := context.Background()
	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	room := addResource(t, resources, "Salle de réunion A", models.KindSpace, "25.00", 0)
	day := mustDay("2026-03-10")

	rec, err := reservations.CreateReservation(ctx, c.ID, room.ID, day, 9, 2)
	require.NoError(t, err)

	// already confirmed on creation
	err = reservations.ConfirmReservation(ctx, rec.ID)
	assert.ErrorIs(t, err, database.ErrInvalidStatus)

	require.NoError(t, reservations.HoldReservation(ctx, rec.ID))

	// completion requires a confirmed booking
	err = reservations.CompleteReservation(ctx, rec.ID)
	assert.ErrorIs(t, err, database.ErrInvalidStatus)
	// only confirmed bookings can go on hold
	err = reservations.HoldReservation(ctx, rec.ID)
	assert.ErrorIs(t, err, database.ErrInvalidStatus)

	require.NoError(t, reservations.CancelReservation(ctx, rec.ID))

	// cancelled is terminal
	err = reservations.ConfirmReservation(ctx, rec.ID)
	assert.ErrorIs(t, err, database.ErrInvalidStatus)
	err = reservations.CompleteReservation(ctx, rec.ID)
	assert.ErrorIs(t, err, database.ErrInvalidStatus)

	err = reservations.ConfirmReservation(ctx, 999)
	assert.ErrorIs(t, err, database.ErrTransactionNotFound)
}
