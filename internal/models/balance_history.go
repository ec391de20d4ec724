package models

import (
	"time"

	"github.com/werner-traut/budget/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BalanceHistory is one day's projection snapshot, kept for trend charts.
// Rows are overwritten in place when the same day is recomputed; no soft deletes.
type BalanceHistory struct {
	ID                      string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  string          `gorm:"type:uuid;not null;uniqueIndex:idx_balance_history_user_date" json:"user_id"`
	BalanceDate             time.Time       `gorm:"type:date;not null;uniqueIndex:idx_balance_history_user_date" json:"balance_date"`
	BankBalance             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"bank_balance"`
	CurrentPeriodEndBalance decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"current_period_end_balance"`
	NextPeriodEndBalance    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"next_period_end_balance"`
	PeriodAfterEndBalance   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"period_after_end_balance"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// TableName keeps the singular table name used by the migrations.
func (BalanceHistory) TableName() string {
	return "balance_history"
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *BalanceHistory) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
