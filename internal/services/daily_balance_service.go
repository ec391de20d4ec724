package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/werner-traut/budget/internal/calendar"
	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
)

// dailyBalanceService stores the bank balance reported for each day.
type dailyBalanceService struct {
	db *gorm.DB
}

// NewDailyBalanceService creates a new DailyBalanceServicer.
func NewDailyBalanceService(db *gorm.DB) DailyBalanceServicer {
	return &dailyBalanceService{db: db}
}

// UpsertBalance records balance for the day, replacing any earlier report
// for the same day.
func (s *dailyBalanceService) UpsertBalance(userID string, date time.Time, balance decimal.Decimal) (*models.DailyBalance, error) {
	if balance.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance must not be negative")
	}

	day := calendar.Day(date)
	row := &models.DailyBalance{UserID: userID, Date: day, Balance: balance}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetByDate(userID, day)
}

// GetLatest returns the most recent report.
func (s *dailyBalanceService) GetLatest(userID string) (*models.DailyBalance, error) {
	var row models.DailyBalance
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDailyBalanceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

// GetByDate returns the report for one day.
func (s *dailyBalanceService) GetByDate(userID string, date time.Time) (*models.DailyBalance, error) {
	var row models.DailyBalance
	if err := s.db.Where("user_id = ? AND date = ?", userID, calendar.Day(date)).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDailyBalanceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}
