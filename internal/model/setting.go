package model

// Setting keys
const (
	SettingCompanyName       = "company_name"
	SettingCurrencySymbol    = "currency_symbol"
	SettingLowStockThreshold = "low_stock_threshold"
)

// Setting is one key/value pair of the settings document. Values are text.
type Setting struct {
	Key   string `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}
