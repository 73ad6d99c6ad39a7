package reports

import (
	"context"
	"fmt"
	"time"

	"comptoir/internal/domain"
	"comptoir/internal/models"

	"github.com/rs/zerolog"
)

// Engine computes business indicators over the transaction ledger. It is
// strictly read-only: the aggregate tier delegates grouping to the store,
// the derived tier post-processes those rows in memory.
type Engine struct {
	source       domain.AggregateSource
	hoursPerDay  int
	businessDays int
	logger       *zerolog.Logger
}

func NewEngine(source domain.AggregateSource, hoursPerDay, businessDays int, logger *zerolog.Logger) *Engine {
	if hoursPerDay <= 0 {
		hoursPerDay = models.DefaultHoursPerDay
	}
	if businessDays <= 0 {
		businessDays = models.DefaultBusinessDays
	}
	return &Engine{
		source:       source,
		hoursPerDay:  hoursPerDay,
		businessDays: businessDays,
		logger:       logger,
	}
}

func (e *Engine) GlobalTotals(ctx context.Context) (*models.GlobalTotals, error) {
	return e.source.GetGlobalTotals(ctx)
}

func (e *Engine) SalesByCategory(ctx context.Context) ([]*models.CategorySales, error) {
	return e.source.GetSalesByCategory(ctx)
}

// SalesByCustomer ranks customers by transaction count, then revenue.
func (e *Engine) SalesByCustomer(ctx context.Context) ([]*models.CustomerSales, error) {
	return e.source.GetSalesByCustomer(ctx)
}

func (e *Engine) VolumeByMonth(ctx context.Context) ([]*models.PeriodVolume, error) {
	return e.source.GetVolumeByMonth(ctx)
}

func (e *Engine) VolumeByDay(ctx context.Context, year, month int) ([]*models.PeriodVolume, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month out of range: %d", month)
	}
	return e.source.GetVolumeByDay(ctx, year, month)
}

// monthWindow returns the first and last day of the month containing ref,
// formatted for date comparison in the store.
func monthWindow(ref time.Time) (string, string) {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}
