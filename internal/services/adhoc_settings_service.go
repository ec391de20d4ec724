package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
)

// adhocSettingsService stores the per-user daily adhoc allowance.
type adhocSettingsService struct {
	db            *gorm.DB
	defaultAmount decimal.Decimal
}

// NewAdhocSettingsService creates a new AdhocSettingsServicer. Users without
// settings get defaultAmount on first read.
func NewAdhocSettingsService(db *gorm.DB, defaultAmount decimal.Decimal) AdhocSettingsServicer {
	return &adhocSettingsService{db: db, defaultAmount: defaultAmount}
}

func (s *adhocSettingsService) find(userID string) (*models.AdhocSettings, error) {
	var settings models.AdhocSettings
	if err := s.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetSettings returns the user's settings, creating the default row if none
// exists yet.
func (s *adhocSettingsService) GetSettings(userID string) (*models.AdhocSettings, error) {
	settings, err := s.find(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	created := &models.AdhocSettings{UserID: userID, DailyAmount: s.defaultAmount}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// A concurrent first read may have won the insert; read back the stored row.
	settings, err = s.find(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

// UpdateSettings upserts the daily amount.
func (s *adhocSettingsService) UpdateSettings(userID string, dailyAmount decimal.Decimal) (*models.AdhocSettings, error) {
	if dailyAmount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "daily amount must not be negative")
	}

	row := &models.AdhocSettings{UserID: userID, DailyAmount: dailyAmount}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"daily_amount", "updated_at"}),
	}).Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings, err := s.find(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}
