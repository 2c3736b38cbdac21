package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopmanager/internal/dto"
	"shopmanager/internal/model"
	"shopmanager/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService defines the business logic contract for products.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context) (*dto.ProductListResponse, error)
	Search(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, userID, id uuid.UUID, delta int) (*dto.ProductResponse, error)
	ListLowStock(ctx context.Context) ([]dto.ProductResponse, error)
}

type catalogService struct {
	repo     repository.ProductRepository
	movement repository.StockMovementRepository
	rdb      *redis.Client
}

func NewCatalogService(repo repository.ProductRepository, movement repository.StockMovementRepository, rdb *redis.Client) CatalogService {
	return &catalogService{repo: repo, movement: movement, rdb: rdb}
}

// validatePrices enforces the catalog invariant: both prices non-negative and
// selling never below purchase. The error names the offending field so the
// client can report it inline.
func validatePrices(purchase, selling decimal.Decimal) error {
	if purchase.IsNegative() {
		return errors.New("purchase_price must not be negative")
	}
	if selling.IsNegative() {
		return errors.New("selling_price must not be negative")
	}
	if selling.LessThan(purchase) {
		return errors.New("selling_price must be greater than or equal to purchase_price")
	}
	return nil
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validatePrices(req.PurchasePrice, req.SellingPrice); err != nil {
		return nil, err
	}
	if req.QuantityInStock < 0 {
		return nil, errors.New("quantity_in_stock must not be negative")
	}
	if req.LowStockThreshold < 0 {
		return nil, errors.New("low_stock_threshold must not be negative")
	}

	p := &model.Product{
		Name:              req.Name,
		SKU:               req.SKU,
		Description:       req.Description,
		Category:          req.Category,
		PurchasePrice:     req.PurchasePrice,
		SellingPrice:      req.SellingPrice,
		QuantityInStock:   req.QuantityInStock,
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.rdb, cacheKeyProducts, cacheKeyDashboardStats)
	return productToResponse(p), nil
}

func (s *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return productToResponse(p), nil
}

func (s *catalogService) List(ctx context.Context) (*dto.ProductListResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: int64(len(products)),
	}
	for i := range products {
		resp.Data = append(resp.Data, *productToResponse(&products[i]))
	}
	return resp, nil
}

func (s *catalogService) Search(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s not found", id)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.SKU != nil {
		p.SKU = req.SKU
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = req.Category
	}
	if req.PurchasePrice != nil {
		p.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		p.SellingPrice = *req.SellingPrice
	}
	if req.QuantityInStock != nil {
		p.QuantityInStock = *req.QuantityInStock
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}

	// Re-validate the full row, not just changed fields: raising purchase
	// price alone can break the invariant.
	if err := validatePrices(p.PurchasePrice, p.SellingPrice); err != nil {
		return nil, err
	}
	if p.QuantityInStock < 0 {
		return nil, errors.New("quantity_in_stock must not be negative")
	}
	if p.LowStockThreshold < 0 {
		return nil, errors.New("low_stock_threshold must not be negative")
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, s.rdb, cacheKeyProducts, cacheKeyDashboardStats)
	return productToResponse(p), nil
}

// Delete removes a product without sales history. Products referenced by
// invoice items must stay for historical reporting — the repository rejects
// the delete and the user sees why.
func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHasSalesHistory) {
			return err
		}
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	invalidate(ctx, s.rdb, cacheKeyProducts, cacheKeyDashboardStats)
	return nil
}

// AdjustStock changes the stock level and records the audit movement in one
// transaction: either both rows land or neither does.
func (s *catalogService) AdjustStock(ctx context.Context, userID, id uuid.UUID, delta int) (*dto.ProductResponse, error) {
	if delta == 0 {
		return nil, errors.New("delta must not be zero")
	}
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AdjustStockTx(tx, id, delta); err != nil {
			return err
		}
		mov := &model.StockMovement{
			ProductID:      id,
			ChangeQuantity: delta,
			Reason:         model.MovementReasonAdjustment,
			CreatedBy:      userID,
		}
		return s.movement.CreateTx(tx, mov)
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.rdb, cacheKeyProducts, cacheKeyDashboardStats)
	return s.GetByID(ctx, id)
}

func (s *catalogService) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		SKU:               p.SKU,
		Description:       p.Description,
		Category:          p.Category,
		PurchasePrice:     p.PurchasePrice,
		SellingPrice:      p.SellingPrice,
		QuantityInStock:   p.QuantityInStock,
		LowStockThreshold: p.LowStockThreshold,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}
