package repository

import (
	"context"

	"shopmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceRepository persists invoices and their line items.
// Invoices are immutable: there is deliberately no Update method.
type InvoiceRepository interface {
	// Create writes the invoice and its Items inside the given tx.
	Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	// ListAll returns every invoice, newest first, without line items.
	ListAll(ctx context.Context) ([]model.Invoice, error)
	ListRecent(ctx context.Context, limit int) ([]model.Invoice, error)
	DB() *gorm.DB
}

type invoiceRepo struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository { return &invoiceRepo{db: db} }

func (r *invoiceRepo) DB() *gorm.DB { return r.db }

func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *model.Invoice) error {
	return tx.WithContext(ctx).Create(inv).Error
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).Preload("Items.Product").First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *invoiceRepo) ListAll(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) ListRecent(ctx context.Context, limit int) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&invoices).Error
	return invoices, err
}
