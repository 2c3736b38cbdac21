package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item. Stock is mutated by the catalog service on
// create/update/adjust and decremented by the checkout service on sale.
// Products with sales history (referenced by invoice_items) cannot be deleted.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"index;not null"`
	SKU         *string   `gorm:"column:sku;index"`
	Description *string
	Category    *string
	// PurchasePrice must never exceed SellingPrice — enforced at the service layer.
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SellingPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	QuantityInStock   int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:5"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BeforeCreate assigns the UUID client-side; SQLite has no uuid default.
func (p *Product) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
