package models

import "github.com/shopspring/decimal"

// AdhocSettings holds the assumed discretionary spend per day.
type AdhocSettings struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DailyAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"daily_amount"`
}

// TableName pins the table name; the default pluralizer is not relied on.
func (AdhocSettings) TableName() string {
	return "adhoc_settings"
}
