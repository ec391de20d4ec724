package services

import (
	"testing"

	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/testutil"
)

func TestGetSettings(t *testing.T) {
	t.Run("lazily_creates_default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdhocSettingsService(db, testutil.Money("40.00"))
		user := testutil.CreateTestUser(t, db)

		settings, err := svc.GetSettings(user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "40", settings.DailyAmount)

		_, err = svc.GetSettings(user.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.AdhocSettings{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected a single settings row, got %d", count)
		}
	})

	t.Run("existing_row_returned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdhocSettingsService(db, testutil.Money("40.00"))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestAdhocSettings(t, db, user.ID, "12.50")

		settings, err := svc.GetSettings(user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "12.50", settings.DailyAmount)
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("creates_then_updates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdhocSettingsService(db, testutil.Money("40.00"))
		user := testutil.CreateTestUser(t, db)

		first, err := svc.UpdateSettings(user.ID, testutil.Money("25"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "25", first.DailyAmount)

		second, err := svc.UpdateSettings(user.ID, testutil.Money("0"))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "0", second.DailyAmount)

		if first.ID != second.ID {
			t.Errorf("expected the same row to be updated, got %s and %s", first.ID, second.ID)
		}
	})

	t.Run("negative_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAdhocSettingsService(db, testutil.Money("40.00"))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.UpdateSettings(user.ID, testutil.Money("-0.01"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}
