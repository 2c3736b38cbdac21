package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DailyTotal is the typed result row for the 7-day sales series.
type DailyTotal struct {
	Date  string          `gorm:"column:date"`
	Total decimal.Decimal `gorm:"column:total"`
}

// ReportRepository runs the read-only aggregation queries behind the
// dashboard and reports. Every query returns a typed result — no ad hoc
// row shapes cross the store boundary. Date parameters are local-calendar
// day strings (YYYY-MM-DD) or month strings (YYYY-MM); bucketing uses
// SQLite's localtime conversion so day boundaries follow the terminal's
// clock, not UTC.
type ReportRepository interface {
	SalesTotalOn(ctx context.Context, date string) (decimal.Decimal, error)
	InvoiceCountOn(ctx context.Context, date string) (int64, error)
	SalesTotalInMonth(ctx context.Context, month string) (decimal.Decimal, error)
	LowStockCount(ctx context.Context) (int64, error)
	DailyTotalsSince(ctx context.Context, fromDate string) ([]DailyTotal, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesTotalOn(ctx context.Context, date string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE date(created_at, 'localtime') = ?`,
		date,
	).Scan(&total).Error
	return total, err
}

func (r *reportRepo) InvoiceCountOn(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM invoices WHERE date(created_at, 'localtime') = ?`,
		date,
	).Scan(&count).Error
	return count, err
}

func (r *reportRepo) SalesTotalInMonth(ctx context.Context, month string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_amount), 0) FROM invoices WHERE strftime('%Y-%m', created_at, 'localtime') = ?`,
		month,
	).Scan(&total).Error
	return total, err
}

func (r *reportRepo) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM products WHERE quantity_in_stock <= low_stock_threshold`,
	).Scan(&count).Error
	return count, err
}

func (r *reportRepo) DailyTotalsSince(ctx context.Context, fromDate string) ([]DailyTotal, error) {
	var rows []DailyTotal
	err := r.db.WithContext(ctx).Raw(
		`SELECT date(created_at, 'localtime') AS date, SUM(total_amount) AS total
		 FROM invoices
		 WHERE date(created_at, 'localtime') >= ?
		 GROUP BY date(created_at, 'localtime')
		 ORDER BY date ASC`,
		fromDate,
	).Scan(&rows).Error
	return rows, err
}
