package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/werner-traut/budget/internal/calendar"
	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/logger"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/projection"
)

// dashboardService assembles the projection shown on the dashboard.
type dashboardService struct {
	periods  PayPeriodServicer
	entries  BudgetEntryServicer
	adhoc    AdhocSettingsServicer
	balances DailyBalanceServicer
	history  BalanceHistoryServicer
	log      *zap.SugaredLogger
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(
	periods PayPeriodServicer,
	entries BudgetEntryServicer,
	adhoc AdhocSettingsServicer,
	balances DailyBalanceServicer,
	history BalanceHistoryServicer,
) DashboardServicer {
	return &dashboardService{
		periods:  periods,
		entries:  entries,
		adhoc:    adhoc,
		balances: balances,
		history:  history,
		log:      logger.Named("dashboard"),
	}
}

// GetSummary cascades the user's periods if due, projects balances across
// the open periods and records the day's snapshot.
func (s *dashboardService) GetSummary(userID string, today time.Time) (*DashboardSummary, error) {
	day := calendar.Day(today)

	cascade, err := s.periods.CascadeIfDue(userID, day)
	if err != nil {
		return nil, err
	}

	periods, err := s.periods.GetUserPeriods(userID, false)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.GetUserEntries(userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.adhoc.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	latest, err := s.balances.GetLatest(userID)
	if err != nil && !errors.Is(err, apperrors.ErrDailyBalanceNotFound) {
		return nil, err
	}

	in := projection.Input{
		Periods:          periods,
		Entries:          entries,
		AdhocDailyAmount: settings.DailyAmount,
		Today:            day,
	}
	if latest != nil {
		in.LatestBankBalance = &latest.Balance
	}
	result := projection.Project(in)

	s.recordSnapshot(userID, day, latest, result)

	return &DashboardSummary{
		Today:            day,
		Cascaded:         cascade.Cascaded,
		LatestBalance:    latest,
		AdhocDailyAmount: settings.DailyAmount,
		Projection:       result,
	}, nil
}

// recordSnapshot stores the day's end-of-period balances. Failures are logged
// and never fail the dashboard.
func (s *dashboardService) recordSnapshot(userID string, day time.Time, latest *models.DailyBalance, result projection.Result) {
	if _, ok := result.ByType(models.PeriodTypeCurrent); !ok {
		return
	}

	bank := decimal.Zero
	if latest != nil {
		bank = latest.Balance
	}

	_, err := s.history.Record(&models.BalanceHistory{
		UserID:                  userID,
		BalanceDate:             day,
		BankBalance:             bank,
		CurrentPeriodEndBalance: result.RemainingFor(models.PeriodTypeCurrent),
		NextPeriodEndBalance:    result.RemainingFor(models.PeriodTypeNext),
		PeriodAfterEndBalance:   result.RemainingFor(models.PeriodTypeAfter),
	})
	if err != nil {
		s.log.Warnw("failed to record balance history", "user_id", userID, "date", calendar.Format(day), "error", err)
	}
}
