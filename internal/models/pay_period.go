package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType labels a pay period by recency.
type PeriodType string

const (
	PeriodTypeCurrent PeriodType = "CURRENT_PERIOD"
	PeriodTypeNext    PeriodType = "NEXT_PERIOD"
	PeriodTypeAfter   PeriodType = "PERIOD_AFTER"
	PeriodTypeFuture  PeriodType = "FUTURE_PERIOD"
	PeriodTypeClosed  PeriodType = "CLOSED_PERIOD"
)

// ActivePeriodTypes is the chronological order of the open period labels.
var ActivePeriodTypes = []PeriodType{
	PeriodTypeCurrent,
	PeriodTypeNext,
	PeriodTypeAfter,
	PeriodTypeFuture,
}

// Valid reports whether t is one of the five known labels.
func (t PeriodType) Valid() bool {
	switch t {
	case PeriodTypeCurrent, PeriodTypeNext, PeriodTypeAfter, PeriodTypeFuture, PeriodTypeClosed:
		return true
	}
	return false
}

// IsClosed reports whether t is the terminal label.
func (t PeriodType) IsClosed() bool {
	return t == PeriodTypeClosed
}

// PayPeriod is a span that begins with a salary payment. Its end is the
// start of the next period in chronological order. Version is bumped on
// every relabel and guards concurrent cascades.
type PayPeriod struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	PeriodType   PeriodType      `gorm:"type:varchar(20);not null;index" json:"period_type"`
	StartDate    time.Time       `gorm:"type:date;not null" json:"start_date"`
	SalaryAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"salary_amount"`
	Version      int64           `gorm:"not null;default:0" json:"version"`
}
