package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/werner-traut/budget/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Day parses a YYYY-MM-DD string into a UTC midnight, failing the test on
// malformed input.
func Day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", s, err)
	}
	return d
}

// Money parses a decimal literal.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudgetEntry creates a scheduled expense.
func CreateTestBudgetEntry(t *testing.T, db *gorm.DB, userID, amount, dueDate string) *models.BudgetEntry {
	t.Helper()

	entry := &models.BudgetEntry{
		UserID:  userID,
		Name:    fmt.Sprintf("Bill %d", nextID()),
		Amount:  Money(amount),
		DueDate: Day(t, dueDate),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test budget entry: %v", err)
	}
	return entry
}

// CreateTestPayPeriod creates a pay period directly, bypassing ordering checks.
func CreateTestPayPeriod(t *testing.T, db *gorm.DB, userID string, periodType models.PeriodType, startDate, salary string) *models.PayPeriod {
	t.Helper()

	period := &models.PayPeriod{
		UserID:       userID,
		PeriodType:   periodType,
		StartDate:    Day(t, startDate),
		SalaryAmount: Money(salary),
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test pay period: %v", err)
	}
	return period
}

// CreateTestPeriodSet creates CURRENT, NEXT, AFTER and FUTURE periods on the
// given start dates, each paying salary.
func CreateTestPeriodSet(t *testing.T, db *gorm.DB, userID, salary string, starts ...string) []*models.PayPeriod {
	t.Helper()

	if len(starts) > len(models.ActivePeriodTypes) {
		t.Fatalf("at most %d open periods, got %d", len(models.ActivePeriodTypes), len(starts))
	}
	periods := make([]*models.PayPeriod, 0, len(starts))
	for i, start := range starts {
		periods = append(periods, CreateTestPayPeriod(t, db, userID, models.ActivePeriodTypes[i], start, salary))
	}
	return periods
}

// CreateTestDailyBalance records a reported balance.
func CreateTestDailyBalance(t *testing.T, db *gorm.DB, userID, date, balance string) *models.DailyBalance {
	t.Helper()

	row := &models.DailyBalance{
		UserID:  userID,
		Date:    Day(t, date),
		Balance: Money(balance),
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test daily balance: %v", err)
	}
	return row
}

// CreateTestAdhocSettings stores a daily adhoc amount.
func CreateTestAdhocSettings(t *testing.T, db *gorm.DB, userID, amount string) *models.AdhocSettings {
	t.Helper()

	row := &models.AdhocSettings{UserID: userID, DailyAmount: Money(amount)}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to create test adhoc settings: %v", err)
	}
	return row
}
