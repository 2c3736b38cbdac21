package repository

import (
	"context"
	"errors"
	"fmt"

	"shopmanager/internal/dto"
	"shopmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrHasSalesHistory blocks deletion of products referenced by invoice items.
var ErrHasSalesHistory = errors.New("cannot delete product: it has sales history")

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// Delete removes the row, failing with ErrHasSalesHistory when any
	// invoice item references it. The check and delete run in one tx.
	Delete(ctx context.Context, id uuid.UUID) error
	ListLowStock(ctx context.Context) ([]model.Product, error)

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	// DecrementStockTx subtracts qty, guarded so stock never drops below zero.
	// Returns an error when the guard rejects the write.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error
	// AdjustStockTx applies a signed delta, guarded against going negative.
	// Runs inside the caller's transaction alongside the audit movement.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

// Search matches name or SKU, ordered by name, capped by filter.Limit
// (at most 50) to bound response size.
func (r *productRepo) Search(ctx context.Context, filter dto.ProductFilter) ([]model.Product, error) {
	limit := filter.Limit
	if limit < 1 || limit > 50 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("name LIKE ? OR sku LIKE ?", term, term)
	}
	var products []model.Product
	err := q.Order("name ASC").Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&model.InvoiceItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrHasSalesHistory
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("quantity_in_stock <= low_stock_threshold").
		Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity_in_stock >= ?", id, qty).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("insufficient stock for product %s", id)
	}
	return nil
}

func (r *productRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity_in_stock + ? >= 0", id, delta).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock adjustment rejected for product %s", id)
	}
	return nil
}

func (r *productRepo) DB() *gorm.DB { return r.db }
