package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/pagination"
	"github.com/werner-traut/budget/internal/projection"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// BudgetEntryUpdate carries the optional fields of a partial update.
type BudgetEntryUpdate struct {
	Name    *string
	Amount  *decimal.Decimal
	DueDate *time.Time
}

// BudgetEntryServicer defines the contract for scheduled expenses.
type BudgetEntryServicer interface {
	CreateEntry(userID, name string, amount decimal.Decimal, dueDate time.Time) (*models.BudgetEntry, error)
	GetUserEntries(userID string) ([]models.BudgetEntry, error)
	ListEntries(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetEntry], error)
	GetEntryByID(userID, entryID string) (*models.BudgetEntry, error)
	UpdateEntry(userID, entryID string, update BudgetEntryUpdate) (*models.BudgetEntry, error)
	DeleteEntry(userID, entryID string) error
	MarkPaid(userID, entryID string) (*models.BudgetEntry, error)
}

// PayPeriodUpdate carries the optional fields of a partial update.
type PayPeriodUpdate struct {
	PeriodType   *models.PeriodType
	StartDate    *time.Time
	SalaryAmount *decimal.Decimal
}

// CascadeResult reports what a cascade trigger did.
type CascadeResult struct {
	Cascaded bool               `json:"cascaded"`
	Rounds   int                `json:"rounds"`
	Changed  []models.PayPeriod `json:"changed"`
	Periods  []models.PayPeriod `json:"periods"`
}

// CascadeRunSummary reports a cascade pass over every user.
type CascadeRunSummary struct {
	Users    int `json:"users"`
	Cascaded int `json:"cascaded"`
	Failed   int `json:"failed"`
}

// PayPeriodServicer defines the contract for pay period storage and the
// cascade that advances period labels.
type PayPeriodServicer interface {
	CreatePeriod(userID string, periodType models.PeriodType, startDate time.Time, salary decimal.Decimal) (*models.PayPeriod, error)
	GetUserPeriods(userID string, includeClosed bool) ([]models.PayPeriod, error)
	GetPeriodByID(userID, periodID string) (*models.PayPeriod, error)
	UpdatePeriod(userID, periodID string, update PayPeriodUpdate) (*models.PayPeriod, error)
	AddNextPeriod(userID string, today time.Time) (*models.PayPeriod, error)
	CascadeIfDue(userID string, today time.Time) (*CascadeResult, error)
	CascadeAllUsers(ctx context.Context, today time.Time) (*CascadeRunSummary, error)
}

// AdhocSettingsServicer defines the contract for the daily adhoc allowance.
type AdhocSettingsServicer interface {
	GetSettings(userID string) (*models.AdhocSettings, error)
	UpdateSettings(userID string, dailyAmount decimal.Decimal) (*models.AdhocSettings, error)
}

// DailyBalanceServicer defines the contract for reported bank balances.
type DailyBalanceServicer interface {
	UpsertBalance(userID string, date time.Time, balance decimal.Decimal) (*models.DailyBalance, error)
	GetLatest(userID string) (*models.DailyBalance, error)
	GetByDate(userID string, date time.Time) (*models.DailyBalance, error)
}

// BalanceHistoryServicer defines the contract for projection snapshots.
type BalanceHistoryServicer interface {
	Record(snapshot *models.BalanceHistory) (*models.BalanceHistory, error)
	GetRecent(userID string, limit int) ([]models.BalanceHistory, error)
	Export(userID string, limit int, w io.Writer) error
}

// DashboardSummary is everything the dashboard renders for one day.
type DashboardSummary struct {
	Today            time.Time            `json:"today"`
	Cascaded         bool                 `json:"cascaded"`
	LatestBalance    *models.DailyBalance `json:"latest_balance"`
	AdhocDailyAmount decimal.Decimal      `json:"adhoc_daily_amount"`
	Projection       projection.Result    `json:"projection"`
}

// DashboardServicer defines the contract for the projected dashboard.
type DashboardServicer interface {
	GetSummary(userID string, today time.Time) (*DashboardSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
