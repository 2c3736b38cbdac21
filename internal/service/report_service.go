package service

import (
	"context"
	"encoding/json"
	"time"

	"shopmanager/internal/dto"
	"shopmanager/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// ReportService computes the read-only dashboard and report aggregates.
// Everything here is derived fresh from invoices and products on each call;
// Redis only holds short-lived copies that checkout invalidates.
type ReportService interface {
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	ReportStats(ctx context.Context) (*dto.ReportStatsResponse, error)
	WeeklySales(ctx context.Context) (*dto.WeeklySalesResponse, error)
	RecentInvoices(ctx context.Context) ([]dto.InvoiceListItem, error)
}

type reportService struct {
	repo     repository.ReportRepository
	invoices repository.InvoiceRepository
	rdb      *redis.Client
	// now is the clock used for local calendar bucketing; tests override it.
	now func() time.Time
}

func NewReportService(repo repository.ReportRepository, invoices repository.InvoiceRepository, rdb *redis.Client) ReportService {
	return &reportService{repo: repo, invoices: invoices, rdb: rdb, now: time.Now}
}

const localDate = "2006-01-02"

// growth returns the relative change between prior and current period totals
// as a percentage, rounded to 2 decimals. A zero prior period is defined as
// 100% growth regardless of the current value.
func growth(current, prior decimal.Decimal) decimal.Decimal {
	if prior.IsZero() {
		return decimal.NewFromInt(100)
	}
	return current.Sub(prior).Div(prior).Mul(decimal.NewFromInt(100)).Round(2)
}

func (s *reportService) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	var cached dto.DashboardStatsResponse
	if s.cacheGet(ctx, cacheKeyDashboardStats, &cached) {
		return &cached, nil
	}

	now := s.now()
	today := now.Format(localDate)
	yesterday := now.AddDate(0, 0, -1).Format(localDate)

	todaySales, err := s.repo.SalesTotalOn(ctx, today)
	if err != nil {
		return nil, err
	}
	yesterdaySales, err := s.repo.SalesTotalOn(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	invoicesToday, err := s.repo.InvoiceCountOn(ctx, today)
	if err != nil {
		return nil, err
	}
	invoicesYesterday, err := s.repo.InvoiceCountOn(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.LowStockCount(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardStatsResponse{
		TodaySales:     todaySales,
		SalesGrowth:    growth(todaySales, yesterdaySales),
		InvoicesToday:  invoicesToday,
		InvoicesGrowth: growth(decimal.NewFromInt(invoicesToday), decimal.NewFromInt(invoicesYesterday)),
		LowStockItems:  lowStock,
	}
	s.cacheSet(ctx, cacheKeyDashboardStats, resp)
	return resp, nil
}

func (s *reportService) ReportStats(ctx context.Context) (*dto.ReportStatsResponse, error) {
	var cached dto.ReportStatsResponse
	if s.cacheGet(ctx, cacheKeyReportStats, &cached) {
		return &cached, nil
	}

	now := s.now()
	today := now.Format(localDate)
	yesterday := now.AddDate(0, 0, -1).Format(localDate)
	thisMonth := now.Format("2006-01")
	prevMonth := now.AddDate(0, -1, 0).Format("2006-01")

	todaySales, err := s.repo.SalesTotalOn(ctx, today)
	if err != nil {
		return nil, err
	}
	yesterdaySales, err := s.repo.SalesTotalOn(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	monthlySales, err := s.repo.SalesTotalInMonth(ctx, thisMonth)
	if err != nil {
		return nil, err
	}
	lastMonthSales, err := s.repo.SalesTotalInMonth(ctx, prevMonth)
	if err != nil {
		return nil, err
	}
	todayInvoices, err := s.repo.InvoiceCountOn(ctx, today)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReportStatsResponse{
		TodaySales:    todaySales,
		SalesGrowth:   growth(todaySales, yesterdaySales),
		MonthlySales:  monthlySales,
		MonthlyGrowth: growth(monthlySales, lastMonthSales),
		TodayInvoices: todayInvoices,
	}
	s.cacheSet(ctx, cacheKeyReportStats, resp)
	return resp, nil
}

// WeeklySales builds the 7-day rolling series: today and the preceding six
// calendar days, in order, with days that saw no sales filled as zero.
func (s *reportService) WeeklySales(ctx context.Context) (*dto.WeeklySalesResponse, error) {
	var cached dto.WeeklySalesResponse
	if s.cacheGet(ctx, cacheKeyWeeklySales, &cached) {
		return &cached, nil
	}

	now := s.now()
	from := now.AddDate(0, 0, -6).Format(localDate)

	rows, err := s.repo.DailyTotalsSince(ctx, from)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row.Total
	}

	resp := &dto.WeeklySalesResponse{
		Days:           make([]dto.WeeklyDay, 0, 7),
		TotalWeekSales: decimal.Zero,
	}
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dateStr := day.Format(localDate)
		total, ok := byDate[dateStr]
		if !ok {
			total = decimal.Zero
		}
		resp.Days = append(resp.Days, dto.WeeklyDay{
			Date:      dateStr,
			DayOfWeek: day.Format("Mon"),
			Total:     total,
		})
		resp.TotalWeekSales = resp.TotalWeekSales.Add(total)
	}

	s.cacheSet(ctx, cacheKeyWeeklySales, resp)
	return resp, nil
}

func (s *reportService) RecentInvoices(ctx context.Context) ([]dto.InvoiceListItem, error) {
	invoices, err := s.invoices.ListRecent(ctx, 5)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceListItem, 0, len(invoices))
	for i := range invoices {
		out = append(out, invoiceToListItem(&invoices[i]))
	}
	return out, nil
}

// cacheGet loads a cached aggregate into dest, reporting whether it was
// present. Redis being down degrades to a recompute, never an error.
func (s *reportService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *reportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, key, raw, cacheTTL).Err()
}
