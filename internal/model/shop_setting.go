package model

// Setting keys persisted in shop_settings.
const (
	SettingShopName          = "shop_name"
	SettingTaxNumber         = "tax_number"
	SettingDefaultTaxPercent = "default_tax_percent"
)

// Defaults used when a key has no persisted row yet.
const (
	DefaultShopName   = "My Awesome Retail Shop"
	DefaultTaxPercent = 18
)

// ShopSetting is one key/value row of the singleton shop configuration.
// Values are string-encoded; the settings service handles typing and defaults.
type ShopSetting struct {
	SettingKey   string `gorm:"primaryKey"`
	SettingValue string `gorm:"not null"`
}

func (ShopSetting) TableName() string { return "shop_settings" }
