package reports

import (
	"context"
	"testing"
	"time"

	"comptoir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullStubSource() *stubSource {
	return &stubSource{
		totals: &models.GlobalTotals{
			Transactions:  5,
			Quantity:      12,
			Revenue:       dec("324.50"),
			AverageAmount: dec("64.90"),
		},
		categories: []*models.CategorySales{
			{Category: "Informatique", Count: 3, Quantity: 8, Revenue: dec("249.50"), Average: dec("83.17")},
		},
		customers: []*models.CustomerSales{
			{CustomerID: 1, CustomerName: "Dupont Marie", Email: "marie.dupont@email.com", Count: 3, Total: dec("90.00"), Average: dec("30.00")},
		},
		months: []*models.PeriodVolume{
			{Period: "2026-02", Count: 2, Quantity: 4, Revenue: dec("75.00")},
			{Period: "2026-01", Count: 3, Quantity: 8, Revenue: dec("249.50")},
		},
		days: []*models.PeriodVolume{
			{Period: "2026-01-10", Count: 3, Quantity: 8, Revenue: dec("249.50")},
		},
		usage: []*models.ResourceUsage{
			{ResourceID: 1, Name: "Salle de réunion A", Kind: models.KindSpace, BookedHours: 50},
		},
		sales: []*models.ResourceSales{
			{ResourceID: 1, Name: "Souris sans fil", Kind: models.KindProduct, Count: 3, QuantitySold: 8, Revenue: dec("249.50"), Stock: 42},
		},
	}
}

func TestReportAllKinds(t *testing.T) {
	engine := newTestEngine(fullStubSource(), 10, 20)

	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			report, err := engine.Report(context.Background(), kind, Params{})
			require.NoError(t, err)
			assert.Equal(t, kind, report.Kind)
			assert.NotEmpty(t, report.Title)
			assert.NotEmpty(t, report.Columns)
			for _, row := range report.Rows {
				assert.Len(t, row, len(report.Columns))
			}
		})
	}
}

func TestReportUnknownKind(t *testing.T) {
	engine := newTestEngine(fullStubSource(), 0, 0)

	_, err := engine.Report(context.Background(), Kind("weather"), Params{})
	assert.Error(t, err)
}

func TestReportGlobalTotals(t *testing.T) {
	engine := newTestEngine(fullStubSource(), 0, 0)

	report, err := engine.Report(context.Background(), KindGlobalTotals, Params{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, int64(5), report.Rows[0][0])
	assert.Equal(t, 324.5, report.Rows[0][2])
}

func TestReportByPeriodDrilldown(t *testing.T) {
	engine := newTestEngine(fullStubSource(), 0, 0)

	// no window: one row per month
	report, err := engine.Report(context.Background(), KindByPeriod, Params{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "2026-02", report.Rows[0][0])

	// year and month set: the daily drilldown
	report, err = engine.Report(context.Background(), KindByPeriod, Params{Year: 2026, Month: 1})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "2026-01-10", report.Rows[0][0])
	assert.Contains(t, report.Title, "2026-01")
}

func TestVolumeByDayMonthOutOfRange(t *testing.T) {
	engine := newTestEngine(fullStubSource(), 0, 0)

	_, err := engine.VolumeByDay(context.Background(), 2026, 13)
	assert.Error(t, err)
	_, err = engine.VolumeByDay(context.Background(), 2026, 0)
	assert.Error(t, err)
}

func TestNewEngineDefaults(t *testing.T) {
	engine := newTestEngine(&stubSource{}, 0, 0)

	assert.Equal(t, models.DefaultHoursPerDay, engine.hoursPerDay)
	assert.Equal(t, models.DefaultBusinessDays, engine.businessDays)
}

func TestMonthWindow(t *testing.T) {
	tests := []struct {
		ref   string
		first string
		last  string
	}{
		{"2026-03-15", "2026-03-01", "2026-03-31"},
		{"2026-02-01", "2026-02-01", "2026-02-28"},
		{"2024-02-10", "2024-02-01", "2024-02-29"},
		{"2026-12-31", "2026-12-01", "2026-12-31"},
	}

	for _, tt := range tests {
		ref, err := time.Parse("2006-01-02", tt.ref)
		require.NoError(t, err)
		first, last := monthWindow(ref)
		assert.Equal(t, tt.first, first)
		assert.Equal(t, tt.last, last)
	}
}
