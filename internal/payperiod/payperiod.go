// Package payperiod keeps a user's pay periods in chronological label order
// and advances the labels as time passes. Functions here are pure: they take
// the periods already loaded for one user and never touch the store or clock.
package payperiod

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/werner-traut/budget/internal/calendar"
	"github.com/werner-traut/budget/internal/models"
)

// ErrOutOfOrder is returned when the open periods, sorted by start date, do
// not read CURRENT, NEXT, AFTER, FUTURE.
var ErrOutOfOrder = errors.New("periods must be in correct chronological order")

// Candidate is a period about to be written. ID is empty for inserts and set
// for updates, in which case it replaces the stored row of the same ID.
type Candidate struct {
	ID           string
	PeriodType   models.PeriodType
	StartDate    time.Time
	SalaryAmount decimal.Decimal
}

// CandidateFrom builds a Candidate mirroring a stored period.
func CandidateFrom(p models.PayPeriod) Candidate {
	return Candidate{
		ID:           p.ID,
		PeriodType:   p.PeriodType,
		StartDate:    p.StartDate,
		SalaryAmount: p.SalaryAmount,
	}
}

// Advance returns the label a period takes after one cascade.
func Advance(t models.PeriodType) models.PeriodType {
	switch t {
	case models.PeriodTypeFuture:
		return models.PeriodTypeAfter
	case models.PeriodTypeAfter:
		return models.PeriodTypeNext
	case models.PeriodTypeNext:
		return models.PeriodTypeCurrent
	}
	return models.PeriodTypeClosed
}

// SortByStart returns a copy of periods ordered by start date. Ties keep
// their input order.
func SortByStart(periods []models.PayPeriod) []models.PayPeriod {
	sorted := make([]models.PayPeriod, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return calendar.Day(sorted[i].StartDate).Before(calendar.Day(sorted[j].StartDate))
	})
	return sorted
}

// Active returns the non-closed periods ordered by start date.
func Active(periods []models.PayPeriod) []models.PayPeriod {
	active := make([]models.PayPeriod, 0, len(periods))
	for _, p := range SortByStart(periods) {
		if !p.PeriodType.IsClosed() {
			active = append(active, p)
		}
	}
	return active
}

// ValidateOrder merges candidate into existing and checks that the open
// periods, ordered by start date, carry the canonical labels position by
// position. Fewer than four open periods must form a prefix of the order.
func ValidateOrder(existing []models.PayPeriod, candidate Candidate) error {
	merged := make([]models.PayPeriod, 0, len(existing)+1)
	for _, p := range existing {
		if candidate.ID != "" && p.ID == candidate.ID {
			continue
		}
		merged = append(merged, p)
	}
	merged = append(merged, models.PayPeriod{
		Base:       models.Base{ID: candidate.ID},
		PeriodType: candidate.PeriodType,
		StartDate:  candidate.StartDate,
	})

	return checkOrder(Active(merged))
}

func checkOrder(active []models.PayPeriod) error {
	if len(active) > len(models.ActivePeriodTypes) {
		return ErrOutOfOrder
	}
	for i, p := range active {
		if p.PeriodType != models.ActivePeriodTypes[i] {
			return ErrOutOfOrder
		}
	}
	return nil
}

// ShouldCascade reports whether the NEXT_PERIOD has started on or before today.
func ShouldCascade(periods []models.PayPeriod, today time.Time) bool {
	day := calendar.Day(today)
	for _, p := range periods {
		if p.PeriodType == models.PeriodTypeNext && !calendar.Day(p.StartDate).After(day) {
			return true
		}
	}
	return false
}

// Cascade moves every open period one label forward. The result holds every
// input period ordered by start date; closed periods come back unchanged and
// the former CURRENT_PERIOD comes back closed. No FUTURE_PERIOD is created.
func Cascade(periods []models.PayPeriod) []models.PayPeriod {
	sorted := SortByStart(periods)
	for i := range sorted {
		if !sorted[i].PeriodType.IsClosed() {
			sorted[i].PeriodType = Advance(sorted[i].PeriodType)
		}
	}
	return sorted
}

// Changed lists the periods in after whose label differs from the same ID in
// before.
func Changed(before, after []models.PayPeriod) []models.PayPeriod {
	labels := make(map[string]models.PeriodType, len(before))
	for _, p := range before {
		labels[p.ID] = p.PeriodType
	}
	var changed []models.PayPeriod
	for _, p := range after {
		if old, ok := labels[p.ID]; ok && old != p.PeriodType {
			changed = append(changed, p)
		}
	}
	return changed
}

// NextCandidate proposes the period that follows the latest open one: the
// next free label, starting on the following payday, with the salary carried
// forward. ok is false when there is no open period to extend or all four
// open labels are taken.
func NextCandidate(periods []models.PayPeriod) (c Candidate, ok bool) {
	active := Active(periods)
	if len(active) == 0 || len(active) >= len(models.ActivePeriodTypes) {
		return Candidate{}, false
	}
	latest := active[len(active)-1]
	return Candidate{
		PeriodType:   models.ActivePeriodTypes[len(active)],
		StartDate:    calendar.NextPeriodStart(latest.StartDate),
		SalaryAmount: latest.SalaryAmount,
	}, true
}
