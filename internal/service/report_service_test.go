package service

import (
	"context"
	"testing"
	"time"

	"shopmanager/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReportRepo serves canned aggregates keyed by date / month strings.
type stubReportRepo struct {
	salesByDate  map[string]decimal.Decimal
	countsByDate map[string]int64
	salesByMonth map[string]decimal.Decimal
	lowStock     int64
	dailyTotals  []repository.DailyTotal
}

func (r *stubReportRepo) SalesTotalOn(_ context.Context, date string) (decimal.Decimal, error) {
	return r.salesByDate[date], nil
}

func (r *stubReportRepo) InvoiceCountOn(_ context.Context, date string) (int64, error) {
	return r.countsByDate[date], nil
}

func (r *stubReportRepo) SalesTotalInMonth(_ context.Context, month string) (decimal.Decimal, error) {
	return r.salesByMonth[month], nil
}

func (r *stubReportRepo) LowStockCount(_ context.Context) (int64, error) {
	return r.lowStock, nil
}

func (r *stubReportRepo) DailyTotalsSince(_ context.Context, _ string) ([]repository.DailyTotal, error) {
	return r.dailyTotals, nil
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

// fixedClock pins the report service to a known local date.
func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 15, 0, 0, 0, time.Local)
}

func newReportFixture(repo *stubReportRepo) *reportService {
	svc := NewReportService(repo, newStubInvoiceRepo(), nil).(*reportService)
	svc.now = fixedClock
	return svc
}

func TestGrowth(t *testing.T) {
	// Zero prior period counts as 100% growth whatever today looks like.
	assert.True(t, growth(decimal.NewFromInt(500), decimal.Zero).Equal(decimal.NewFromInt(100)))
	assert.True(t, growth(decimal.Zero, decimal.Zero).Equal(decimal.NewFromInt(100)))

	// 150 vs 100 → +50%
	assert.True(t, growth(decimal.NewFromInt(150), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(50)))

	// 50 vs 100 → −50%
	assert.True(t, growth(decimal.NewFromInt(50), decimal.NewFromInt(100)).Equal(decimal.NewFromInt(-50)))

	// Rounded to two decimals
	got := growth(decimal.NewFromInt(1), decimal.NewFromInt(3))
	assert.True(t, got.Equal(decimal.RequireFromString("-66.67")), "got %s", got)
}

func TestDashboardStats(t *testing.T) {
	repo := &stubReportRepo{
		salesByDate: map[string]decimal.Decimal{
			"2026-03-14": decimal.RequireFromString("300.00"),
			"2026-03-13": decimal.RequireFromString("200.00"),
		},
		countsByDate: map[string]int64{
			"2026-03-14": 6,
			"2026-03-13": 4,
		},
		lowStock: 2,
	}
	svc := newReportFixture(repo)

	resp, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.TodaySales.Equal(decimal.RequireFromString("300.00")))
	assert.True(t, resp.SalesGrowth.Equal(decimal.NewFromInt(50)), "got %s", resp.SalesGrowth)
	assert.Equal(t, int64(6), resp.InvoicesToday)
	assert.True(t, resp.InvoicesGrowth.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(2), resp.LowStockItems)
}

func TestDashboardStatsFirstDayOfTrading(t *testing.T) {
	repo := &stubReportRepo{
		salesByDate: map[string]decimal.Decimal{
			"2026-03-14": decimal.RequireFromString("120.00"),
		},
		countsByDate: map[string]int64{"2026-03-14": 3},
	}
	svc := newReportFixture(repo)

	resp, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	// No prior day at all → both growth figures default to 100.
	assert.True(t, resp.SalesGrowth.Equal(decimal.NewFromInt(100)))
	assert.True(t, resp.InvoicesGrowth.Equal(decimal.NewFromInt(100)))
}

func TestReportStatsMonthOverMonth(t *testing.T) {
	repo := &stubReportRepo{
		salesByDate: map[string]decimal.Decimal{
			"2026-03-14": decimal.RequireFromString("50.00"),
		},
		countsByDate: map[string]int64{"2026-03-14": 1},
		salesByMonth: map[string]decimal.Decimal{
			"2026-03": decimal.RequireFromString("900.00"),
			"2026-02": decimal.RequireFromString("600.00"),
		},
	}
	svc := newReportFixture(repo)

	resp, err := svc.ReportStats(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.MonthlySales.Equal(decimal.RequireFromString("900.00")))
	assert.True(t, resp.MonthlyGrowth.Equal(decimal.NewFromInt(50)), "got %s", resp.MonthlyGrowth)
	assert.Equal(t, int64(1), resp.TodayInvoices)
}

func TestWeeklySalesFillsMissingDays(t *testing.T) {
	repo := &stubReportRepo{
		dailyTotals: []repository.DailyTotal{
			{Date: "2026-03-14", Total: decimal.RequireFromString("80.00")},
			{Date: "2026-03-11", Total: decimal.RequireFromString("20.00")},
		},
	}
	svc := newReportFixture(repo)

	resp, err := svc.WeeklySales(context.Background())
	require.NoError(t, err)

	// Exactly 7 entries, oldest first, ending today.
	require.Len(t, resp.Days, 7)
	assert.Equal(t, "2026-03-08", resp.Days[0].Date)
	assert.Equal(t, "2026-03-14", resp.Days[6].Date)

	// Days without sales appear as zero, not gaps.
	assert.True(t, resp.Days[1].Total.IsZero())
	assert.True(t, resp.Days[3].Total.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, resp.Days[6].Total.Equal(decimal.RequireFromString("80.00")))

	assert.True(t, resp.TotalWeekSales.Equal(decimal.RequireFromString("100.00")), "got %s", resp.TotalWeekSales)
}

func TestWeeklySalesAllZero(t *testing.T) {
	svc := newReportFixture(&stubReportRepo{})

	resp, err := svc.WeeklySales(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Days, 7)
	for _, d := range resp.Days {
		assert.True(t, d.Total.IsZero())
	}
	assert.True(t, resp.TotalWeekSales.IsZero())
}
