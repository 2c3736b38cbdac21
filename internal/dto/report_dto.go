package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse compares today against the prior calendar day.
// Growth is (today − prior) / prior × 100, defined as 100 when prior is zero.
type DashboardStatsResponse struct {
	TodaySales     decimal.Decimal `json:"today_sales"`
	SalesGrowth    decimal.Decimal `json:"sales_growth"`
	InvoicesToday  int64           `json:"invoices_today"`
	InvoicesGrowth decimal.Decimal `json:"invoices_growth"`
	LowStockItems  int64           `json:"low_stock_items"`
}

// ReportStatsResponse adds month-over-month figures.
type ReportStatsResponse struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	SalesGrowth   decimal.Decimal `json:"sales_growth"`
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyGrowth decimal.Decimal `json:"monthly_growth"`
	TodayInvoices int64           `json:"today_invoices"`
}

// WeeklyDay is one calendar day in the 7-day rolling series.
type WeeklyDay struct {
	Date      string          `json:"date"` // YYYY-MM-DD, local calendar
	DayOfWeek string          `json:"day_of_week"`
	Total     decimal.Decimal `json:"total"`
}

// WeeklySalesResponse always holds exactly 7 entries ending today,
// with missing days filled as zero.
type WeeklySalesResponse struct {
	Days           []WeeklyDay     `json:"days"`
	TotalWeekSales decimal.Decimal `json:"total_week_sales"`
}
