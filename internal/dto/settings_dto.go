package dto

import "github.com/shopspring/decimal"

// ShopSettingsRequest upserts all three settings keys in one transaction.
type ShopSettingsRequest struct {
	ShopName          string          `json:"shop_name"           validate:"required,max=120"`
	TaxNumber         string          `json:"tax_number"          validate:"max=64"`
	DefaultTaxPercent decimal.Decimal `json:"default_tax_percent" validate:"min=0,max=100"`
}

type ShopSettingsResponse struct {
	ShopName          string          `json:"shop_name"`
	TaxNumber         string          `json:"tax_number"`
	DefaultTaxPercent decimal.Decimal `json:"default_tax_percent"`
}
