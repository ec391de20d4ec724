// Package projection folds salaries, scheduled expenses and the daily adhoc
// allowance across a user's open pay periods to estimate the bank balance at
// the end of each one.
package projection

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/werner-traut/budget/internal/calendar"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/payperiod"
)

// Input is everything the fold needs. Today is supplied by the caller.
type Input struct {
	Periods           []models.PayPeriod
	Entries           []models.BudgetEntry
	AdhocDailyAmount  decimal.Decimal
	LatestBankBalance *decimal.Decimal
	Today             time.Time
}

// PeriodProjection is the computed outlook for one open period.
type PeriodProjection struct {
	PeriodID       string               `json:"period_id"`
	PeriodType     models.PeriodType    `json:"period_type"`
	Entries        []models.BudgetEntry `json:"entries"`
	TotalExpenses  decimal.Decimal      `json:"total_expenses"`
	PeriodStart    time.Time            `json:"period_start"`
	PeriodEnd      *time.Time           `json:"period_end"`
	SalaryApplied  decimal.Decimal      `json:"salary_amount"`
	AdhocTotal     decimal.Decimal      `json:"adhoc_total"`
	DaysInPeriod   int                  `json:"days_in_period"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	Remaining      decimal.Decimal      `json:"remaining"`
}

// Result holds the projections in chronological order.
type Result struct {
	Periods []PeriodProjection `json:"periods"`
}

// ByType returns the projection for the period carrying label t.
func (r Result) ByType(t models.PeriodType) (PeriodProjection, bool) {
	for _, p := range r.Periods {
		if p.PeriodType == t {
			return p, true
		}
	}
	return PeriodProjection{}, false
}

// RemainingFor returns the remaining balance for label t, or zero.
func (r Result) RemainingFor(t models.PeriodType) decimal.Decimal {
	if p, ok := r.ByType(t); ok {
		return p.Remaining
	}
	return decimal.Zero
}

// Project runs the fold. An empty period set yields an empty Result.
func Project(in Input) Result {
	periods := payperiod.Active(in.Periods)
	today := calendar.Day(in.Today)

	running := decimal.Zero
	if in.LatestBankBalance != nil {
		running = *in.LatestBankBalance
	}

	out := Result{Periods: make([]PeriodProjection, 0, len(periods))}
	for i, p := range periods {
		start := calendar.Day(p.StartDate)
		var end *time.Time
		if i+1 < len(periods) {
			e := calendar.Day(periods[i+1].StartDate)
			end = &e
		}

		entries := bucket(in.Entries, start, end)
		expenses := decimal.Zero
		for _, e := range entries {
			expenses = expenses.Add(e.Amount)
		}

		days := daysInPeriod(p.PeriodType, start, end, today)
		adhoc := in.AdhocDailyAmount.Mul(decimal.NewFromInt(int64(days)))

		// the current period's salary is already in the reported balance
		salary := p.SalaryAmount
		if p.PeriodType == models.PeriodTypeCurrent {
			salary = decimal.Zero
		}

		opening := running
		running = running.Add(salary).Sub(expenses).Sub(adhoc)

		out.Periods = append(out.Periods, PeriodProjection{
			PeriodID:       p.ID,
			PeriodType:     p.PeriodType,
			Entries:        entries,
			TotalExpenses:  expenses,
			PeriodStart:    start,
			PeriodEnd:      end,
			SalaryApplied:  salary,
			AdhocTotal:     adhoc,
			DaysInPeriod:   days,
			OpeningBalance: opening,
			Remaining:      running,
		})
	}
	return out
}

// bucket selects entries due in [start, end). A nil end is open-ended.
func bucket(entries []models.BudgetEntry, start time.Time, end *time.Time) []models.BudgetEntry {
	matched := make([]models.BudgetEntry, 0)
	for _, e := range entries {
		due := calendar.Day(e.DueDate)
		if due.Before(start) {
			continue
		}
		if end != nil && !due.Before(*end) {
			continue
		}
		matched = append(matched, e)
	}
	return matched
}

// daysInPeriod counts adhoc days: what is left of the current period, the
// full length of later periods, and nothing for an open-ended period.
func daysInPeriod(t models.PeriodType, start time.Time, end *time.Time, today time.Time) int {
	if end == nil {
		return 0
	}
	if t == models.PeriodTypeCurrent {
		return max(0, calendar.DaysBetween(today, *end))
	}
	return calendar.DaysBetween(start, *end)
}
