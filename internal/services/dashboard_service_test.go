package services

import (
	"errors"
	"io"
	"testing"

	"gorm.io/gorm"

	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/testutil"
)

type failingHistory struct{ calls int }

func (f *failingHistory) Record(*models.BalanceHistory) (*models.BalanceHistory, error) {
	f.calls++
	return nil, errors.New("disk full")
}

func (f *failingHistory) GetRecent(string, int) ([]models.BalanceHistory, error) { return nil, nil }

func (f *failingHistory) Export(string, int, io.Writer) error { return nil }

func newTestDashboard(db *gorm.DB, history BalanceHistoryServicer) DashboardServicer {
	return NewDashboardService(
		NewPayPeriodService(db, 3, nil),
		NewBudgetEntryService(db),
		NewAdhocSettingsService(db, testutil.Money("40")),
		NewDailyBalanceService(db),
		history,
	)
}

func TestGetSummary(t *testing.T) {
	t.Run("projects_and_records_snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		history := NewBalanceHistoryService(db)
		svc := newTestDashboard(db, history)
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestPeriodSet(t, db, user.ID, "2000", "2024-01-01", "2024-01-20", "2024-02-01")
		testutil.CreateTestBudgetEntry(t, db, user.ID, "200", "2024-01-15")
		testutil.CreateTestDailyBalance(t, db, user.ID, "2024-01-10", "1000")

		summary, err := svc.GetSummary(user.ID, testutil.Day(t, "2024-01-10"))
		testutil.AssertNoError(t, err)

		if summary.Cascaded {
			t.Error("expected no cascade before the next payday")
		}
		testutil.AssertDecimal(t, "40", summary.AdhocDailyAmount)
		testutil.AssertDecimal(t, "400", summary.Projection.RemainingFor(models.PeriodTypeCurrent))
		testutil.AssertDecimal(t, "1920", summary.Projection.RemainingFor(models.PeriodTypeNext))
		testutil.AssertDecimal(t, "3920", summary.Projection.RemainingFor(models.PeriodTypeAfter))

		rows, err := history.GetRecent(user.ID, 30)
		testutil.AssertNoError(t, err)
		if len(rows) != 1 {
			t.Fatalf("expected one snapshot, got %d", len(rows))
		}
		testutil.AssertDecimal(t, "1000", rows[0].BankBalance)
		testutil.AssertDecimal(t, "400", rows[0].CurrentPeriodEndBalance)
		testutil.AssertDecimal(t, "1920", rows[0].NextPeriodEndBalance)
		testutil.AssertDecimal(t, "3920", rows[0].PeriodAfterEndBalance)
	})

	t.Run("cascades_when_due", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestDashboard(db, NewBalanceHistoryService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestPeriodSet(t, db, user.ID, "2000", "2024-01-01", "2024-01-20", "2024-02-01")

		summary, err := svc.GetSummary(user.ID, testutil.Day(t, "2024-01-21"))
		testutil.AssertNoError(t, err)

		if !summary.Cascaded {
			t.Error("expected the dashboard to cascade")
		}
		current, ok := summary.Projection.ByType(models.PeriodTypeCurrent)
		if !ok || current.PeriodStart.Format("2006-01-02") != "2024-01-20" {
			t.Errorf("expected the 2024-01-20 period to be current, got %+v", current)
		}
		if len(summary.Projection.Periods) != 2 {
			t.Errorf("expected 2 open periods, got %d", len(summary.Projection.Periods))
		}
	})

	t.Run("no_periods_is_empty_projection", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		history := NewBalanceHistoryService(db)
		svc := newTestDashboard(db, history)
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.GetSummary(user.ID, testutil.Day(t, "2024-01-10"))
		testutil.AssertNoError(t, err)

		if len(summary.Projection.Periods) != 0 {
			t.Errorf("expected empty projection, got %d periods", len(summary.Projection.Periods))
		}
		if summary.LatestBalance != nil {
			t.Error("expected no latest balance")
		}
		rows, _ := history.GetRecent(user.ID, 30)
		if len(rows) != 0 {
			t.Errorf("expected no snapshot without a current period, got %d", len(rows))
		}
	})

	t.Run("snapshot_failure_does_not_fail_summary", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		history := &failingHistory{}
		svc := newTestDashboard(db, history)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestPeriodSet(t, db, user.ID, "2000", "2024-01-01")

		_, err := svc.GetSummary(user.ID, testutil.Day(t, "2024-01-10"))
		testutil.AssertNoError(t, err)
		if history.calls != 1 {
			t.Errorf("expected one snapshot attempt, got %d", history.calls)
		}
	})
}
