package repository

import (
	"context"

	"shopmanager/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementRepository writes to the append-only stock audit log.
type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	// CreateTx is used inside the checkout transaction.
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").Find(&movements).Error
	return movements, err
}
