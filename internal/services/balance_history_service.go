package services

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/werner-traut/budget/internal/calendar"
	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
)

const balanceHistorySheet = "Balance History"

// balanceHistoryService stores one projection snapshot per user and day.
type balanceHistoryService struct {
	db *gorm.DB
}

// NewBalanceHistoryService creates a new BalanceHistoryServicer.
func NewBalanceHistoryService(db *gorm.DB) BalanceHistoryServicer {
	return &balanceHistoryService{db: db}
}

// Record upserts the snapshot for its user and balance date.
func (s *balanceHistoryService) Record(snapshot *models.BalanceHistory) (*models.BalanceHistory, error) {
	row := *snapshot
	row.ID = ""
	row.BalanceDate = calendar.Day(row.BalanceDate)

	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "balance_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"bank_balance",
			"current_period_end_balance",
			"next_period_end_balance",
			"period_after_end_balance",
			"updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stored models.BalanceHistory
	if err := s.db.Where("user_id = ? AND balance_date = ?", row.UserID, row.BalanceDate).First(&stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stored, nil
}

// GetRecent returns the latest limit snapshots in ascending date order.
func (s *balanceHistoryService) GetRecent(userID string, limit int) ([]models.BalanceHistory, error) {
	if limit <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be positive")
	}

	var rows []models.BalanceHistory
	if err := s.db.Where("user_id = ?", userID).
		Order("balance_date DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// Export writes the latest limit snapshots as an xlsx workbook.
func (s *balanceHistoryService) Export(userID string, limit int, w io.Writer) error {
	rows, err := s.GetRecent(userID, limit)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", balanceHistorySheet); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	moneyFormat := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	headers := []string{"Date", "Bank Balance", "Current Period End", "Next Period End", "Period After End"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(balanceHistorySheet, cell, header)
	}
	_ = f.SetCellStyle(balanceHistorySheet, "A1", "E1", headerStyle)
	_ = f.SetColWidth(balanceHistorySheet, "A", "A", 12)
	_ = f.SetColWidth(balanceHistorySheet, "B", "E", 20)

	for i, row := range rows {
		r := i + 2
		_ = f.SetCellValue(balanceHistorySheet, fmt.Sprintf("A%d", r), calendar.Format(row.BalanceDate))
		_ = f.SetCellValue(balanceHistorySheet, fmt.Sprintf("B%d", r), row.BankBalance.InexactFloat64())
		_ = f.SetCellValue(balanceHistorySheet, fmt.Sprintf("C%d", r), row.CurrentPeriodEndBalance.InexactFloat64())
		_ = f.SetCellValue(balanceHistorySheet, fmt.Sprintf("D%d", r), row.NextPeriodEndBalance.InexactFloat64())
		_ = f.SetCellValue(balanceHistorySheet, fmt.Sprintf("E%d", r), row.PeriodAfterEndBalance.InexactFloat64())
		_ = f.SetCellStyle(balanceHistorySheet, fmt.Sprintf("B%d", r), fmt.Sprintf("E%d", r), moneyStyle)
	}

	if err := f.Write(w); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
