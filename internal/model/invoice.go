package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is an immutable record of one completed sale. There is no update
// path: once the checkout transaction commits, the row is never touched again.
// PaymentMethod: "cash" | "card" | "upi"
type Invoice struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceNumber string          `gorm:"uniqueIndex;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(10);not null"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt     time.Time

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

func (i *Invoice) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InvoiceItem is one product-quantity-price line within an invoice.
// UnitPrice is a snapshot taken at sale time — later catalog price changes
// never affect it. Created only inside the checkout transaction.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (it *InvoiceItem) BeforeCreate(_ *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}
