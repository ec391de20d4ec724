package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetEntry is a scheduled expense. DueDate is a calendar day at 00:00 UTC.
type BudgetEntry struct {
	Base
	UserID  string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string          `gorm:"not null" json:"name"`
	Amount  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate time.Time       `gorm:"type:date;not null;index" json:"due_date"`
}
