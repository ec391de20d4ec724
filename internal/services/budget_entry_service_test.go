package services

import (
	"testing"

	"github.com/werner-traut/budget/internal/pagination"
	"github.com/werner-traut/budget/internal/testutil"
)

func TestCreateEntry(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)

		entry, err := svc.CreateEntry(user.ID, "  Rent ", testutil.Money("1200.00"), testutil.Day(t, "2024-02-01"))
		testutil.AssertNoError(t, err)

		if entry.ID == "" {
			t.Fatal("expected entry ID")
		}
		if entry.Name != "Rent" {
			t.Errorf("expected trimmed name Rent, got %q", entry.Name)
		}
		testutil.AssertDecimal(t, "1200", entry.Amount)
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateEntry(user.ID, "Free trial", testutil.Money("0"), testutil.Day(t, "2024-02-01"))
		testutil.AssertNoError(t, err)
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateEntry(user.ID, "Refund", testutil.Money("-5"), testutil.Day(t, "2024-02-01"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("blank_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateEntry(user.ID, "   ", testutil.Money("5"), testutil.Day(t, "2024-02-01"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetEntryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudgetEntry(t, db, user.ID, "30", "2024-03-01")
	testutil.CreateTestBudgetEntry(t, db, user.ID, "10", "2024-01-01")
	testutil.CreateTestBudgetEntry(t, db, user.ID, "20", "2024-02-01")
	testutil.CreateTestBudgetEntry(t, db, other.ID, "99", "2024-01-15")

	entries, err := svc.GetUserEntries(user.ID)
	testutil.AssertNoError(t, err)

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		if got := entries[i].DueDate.Format("2006-01-02"); got != want {
			t.Errorf("entry %d: expected due %s, got %s", i, want, got)
		}
	}
}

func TestListEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetEntryService(db)
	user := testutil.CreateTestUser(t, db)

	for _, due := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		testutil.CreateTestBudgetEntry(t, db, user.ID, "1", due)
	}

	page, err := svc.ListEntries(user.ID, pagination.PageRequest{Page: 2, PageSize: 2})
	testutil.AssertNoError(t, err)

	if page.TotalItems != 3 || page.TotalPages != 2 {
		t.Errorf("expected 3 items over 2 pages, got %d over %d", page.TotalItems, page.TotalPages)
	}
	if len(page.Data) != 1 || page.Data[0].DueDate.Format("2006-01-02") != "2024-01-03" {
		t.Errorf("expected last entry on page 2, got %+v", page.Data)
	}
}

func TestListEntries_SortByAmountDescending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetEntryService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestBudgetEntry(t, db, user.ID, "10", "2024-01-01")
	testutil.CreateTestBudgetEntry(t, db, user.ID, "300", "2024-01-02")
	testutil.CreateTestBudgetEntry(t, db, user.ID, "55.5", "2024-01-03")

	page, err := svc.ListEntries(user.ID, pagination.PageRequest{Sort: "-amount"})
	testutil.AssertNoError(t, err)

	if len(page.Data) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(page.Data))
	}
	for i, want := range []string{"300", "55.5", "10"} {
		testutil.AssertDecimal(t, want, page.Data[i].Amount)
	}
	if page.HasNext {
		t.Error("single page should not report a next page")
	}
}

func TestGetEntryByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestBudgetEntry(t, db, user.ID, "45.67", "2024-01-20")

		entry, err := svc.GetEntryByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "45.67", entry.Amount)
	})

	t.Run("other_users_entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestBudgetEntry(t, db, owner.ID, "1", "2024-01-20")

		_, err := svc.GetEntryByID(intruder.ID, created.ID)
		testutil.AssertAppError(t, err, "BUDGET_ENTRY_NOT_FOUND")
	})
}

func TestUpdateEntry(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestBudgetEntry(t, db, user.ID, "10", "2024-01-20")

		amount := testutil.Money("15.25")
		due := testutil.Day(t, "2024-01-25")
		_, err := svc.UpdateEntry(user.ID, created.ID, BudgetEntryUpdate{Amount: &amount, DueDate: &due})
		testutil.AssertNoError(t, err)

		reloaded, err := svc.GetEntryByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "15.25", reloaded.Amount)
		if reloaded.Name != created.Name {
			t.Errorf("name should be unchanged, got %q", reloaded.Name)
		}
		if got := reloaded.DueDate.Format("2006-01-02"); got != "2024-01-25" {
			t.Errorf("expected due 2024-01-25, got %s", got)
		}
	})

	t.Run("negative_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestBudgetEntry(t, db, user.ID, "10", "2024-01-20")

		amount := testutil.Money("-1")
		_, err := svc.UpdateEntry(user.ID, created.ID, BudgetEntryUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetEntryService(db)
		user := testutil.CreateTestUser(t, db)

		name := "x"
		_, err := svc.UpdateEntry(user.ID, "0190a2b4-0000-7000-8000-00000000dead", BudgetEntryUpdate{Name: &name})
		testutil.AssertAppError(t, err, "BUDGET_ENTRY_NOT_FOUND")
	})
}

func TestDeleteEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetEntryService(db)
	user := testutil.CreateTestUser(t, db)
	created := testutil.CreateTestBudgetEntry(t, db, user.ID, "10", "2024-01-20")

	testutil.AssertNoError(t, svc.DeleteEntry(user.ID, created.ID))

	_, err := svc.GetEntryByID(user.ID, created.ID)
	testutil.AssertAppError(t, err, "BUDGET_ENTRY_NOT_FOUND")

	err = svc.DeleteEntry(user.ID, created.ID)
	testutil.AssertAppError(t, err, "BUDGET_ENTRY_NOT_FOUND")
}

func TestMarkPaid(t *testing.T) {
	tests := []struct {
		name string
		due  string
		want string
	}{
		{name: "same_day_next_month", due: "2024-01-15", want: "2024-02-15"},
		{name: "clamped_to_leap_february", due: "2024-01-31", want: "2024-02-29"},
		{name: "clamped_to_thirty_days", due: "2024-03-31", want: "2024-04-30"},
		{name: "year_rollover", due: "2024-12-10", want: "2025-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewBudgetEntryService(db)
			user := testutil.CreateTestUser(t, db)
			created := testutil.CreateTestBudgetEntry(t, db, user.ID, "10", tt.due)

			paid, err := svc.MarkPaid(user.ID, created.ID)
			testutil.AssertNoError(t, err)
			if got := paid.DueDate.Format("2006-01-02"); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}

			reloaded, _ := svc.GetEntryByID(user.ID, created.ID)
			if got := reloaded.DueDate.Format("2006-01-02"); got != tt.want {
				t.Errorf("stored due date: expected %s, got %s", tt.want, got)
			}
		})
	}
}
