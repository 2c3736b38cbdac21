package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items"          validate:"dive"`
	PaymentMethod string                `json:"payment_method" validate:"required,oneof=cash card upi"`
	// TaxPercent overrides the shop default when present.
	TaxPercent *decimal.Decimal `json:"tax_percent"    validate:"omitempty"`
	// CustomerEmail: optional — when present, the email worker mails the PDF receipt.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InvoiceItemResponse struct {
	ProductID string          `json:"product_id"`
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxPercent    decimal.Decimal       `json:"tax_percent"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaymentMethod string                `json:"payment_method"`
	CreatedBy     string                `json:"created_by"`
	CreatedAt     string                `json:"created_at"`
}

// InvoiceListItem omits line items for listing endpoints.
type InvoiceListItem struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     string          `json:"created_at"`
}

type InvoiceListResponse struct {
	Data  []InvoiceListItem `json:"data"`
	Total int64             `json:"total"`
}
