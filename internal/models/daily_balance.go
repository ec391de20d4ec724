package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyBalance is the bank balance the user reported for one calendar day.
type DailyBalance struct {
	Base
	UserID  string          `gorm:"type:uuid;not null;uniqueIndex:idx_daily_balances_user_date" json:"user_id"`
	Date    time.Time       `gorm:"type:date;not null;uniqueIndex:idx_daily_balances_user_date" json:"date"`
	Balance decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"balance"`
}
