package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock movement reasons.
const (
	MovementReasonSale       = "sale"
	MovementReasonAdjustment = "adjustment"
)

// StockMovement records one change to a product's stock quantity and its
// cause. Append-only: rows are never updated or deleted.
type StockMovement struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	// ChangeQuantity is signed: negative = stock leaves (sale), positive = stock enters.
	ChangeQuantity     int        `gorm:"not null"`
	Reason             string     `gorm:"not null"`
	ReferenceInvoiceID *uuid.UUID `gorm:"type:uuid"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt          time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (m *StockMovement) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
