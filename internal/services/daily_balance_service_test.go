package services

import (
	"testing"

	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/testutil"
)

func TestUpsertBalance(t *testing.T) {
	t.Run("same_day_overwrites", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDailyBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		first, err := svc.UpsertBalance(user.ID, testutil.Day(t, "2024-01-10"), testutil.Money("1000"))
		testutil.AssertNoError(t, err)
		second, err := svc.UpsertBalance(user.ID, testutil.Day(t, "2024-01-10"), testutil.Money("950.75"))
		testutil.AssertNoError(t, err)

		if first.ID != second.ID {
			t.Errorf("expected the same row, got %s and %s", first.ID, second.ID)
		}
		testutil.AssertDecimal(t, "950.75", second.Balance)

		var count int64
		db.Model(&models.DailyBalance{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected one row, got %d", count)
		}
	})

	t.Run("negative_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDailyBalanceService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpsertBalance(user.ID, testutil.Day(t, "2024-01-10"), testutil.Money("-1"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetLatestBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDailyBalanceService(db)
	user := testutil.CreateTestUser(t, db)

	_, err := svc.GetLatest(user.ID)
	testutil.AssertAppError(t, err, "DAILY_BALANCE_NOT_FOUND")

	testutil.CreateTestDailyBalance(t, db, user.ID, "2024-01-12", "300")
	testutil.CreateTestDailyBalance(t, db, user.ID, "2024-01-10", "100")

	latest, err := svc.GetLatest(user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "300", latest.Balance)
}

func TestGetBalanceByDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDailyBalanceService(db)
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestDailyBalance(t, db, user.ID, "2024-01-10", "100")

	row, err := svc.GetByDate(user.ID, testutil.Day(t, "2024-01-10"))
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "100", row.Balance)

	_, err = svc.GetByDate(user.ID, testutil.Day(t, "2024-01-11"))
	testutil.AssertAppError(t, err, "DAILY_BALANCE_NOT_FOUND")
}
