package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name              string          `json:"name"                validate:"required,min=2,max=120"`
	SKU               *string         `json:"sku"                 validate:"omitempty,max=64"`
	Description       *string         `json:"description"`
	Category          *string         `json:"category"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"      validate:"min=0"`
	SellingPrice      decimal.Decimal `json:"selling_price"       validate:"min=0"`
	QuantityInStock   int             `json:"quantity_in_stock"   validate:"min=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name              *string          `json:"name"                validate:"omitempty,min=2,max=120"`
	SKU               *string          `json:"sku"                 validate:"omitempty,max=64"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	PurchasePrice     *decimal.Decimal `json:"purchase_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	QuantityInStock   *int             `json:"quantity_in_stock"   validate:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

type AdjustStockRequest struct {
	// Delta is signed: positive restocks, negative removes.
	Delta int `json:"delta" validate:"required"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// ProductFilter is bound from the query string of GET /v1/products.
// Search matches name or SKU; results are capped to bound response size.
type ProductFilter struct {
	Search string `form:"q"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	SKU               *string         `json:"sku"`
	Description       *string         `json:"description"`
	Category          *string         `json:"category"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	QuantityInStock   int             `json:"quantity_in_stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
}
