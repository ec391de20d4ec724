package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/werner-traut/budget/internal/calendar"
	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/pagination"
)

// budgetEntryService handles scheduled expenses.
type budgetEntryService struct {
	db *gorm.DB
}

// NewBudgetEntryService creates a new BudgetEntryServicer.
func NewBudgetEntryService(db *gorm.DB) BudgetEntryServicer {
	return &budgetEntryService{db: db}
}

func validateEntryFields(name string, amount decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	return nil
}

// CreateEntry stores a new scheduled expense.
func (s *budgetEntryService) CreateEntry(userID, name string, amount decimal.Decimal, dueDate time.Time) (*models.BudgetEntry, error) {
	if err := validateEntryFields(name, amount); err != nil {
		return nil, err
	}

	entry := &models.BudgetEntry{
		UserID:  userID,
		Name:    strings.TrimSpace(name),
		Amount:  amount,
		DueDate: calendar.Day(dueDate),
	}
	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// GetUserEntries returns every entry of the user ordered by due date.
func (s *budgetEntryService) GetUserEntries(userID string) ([]models.BudgetEntry, error) {
	var entries []models.BudgetEntry
	if err := s.db.Where("user_id = ?", userID).
		Order("due_date ASC").Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// ListEntries returns one page of the user's entries in the requested order.
func (s *budgetEntryService) ListEntries(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetEntry], error) {
	page.Defaults()

	base := s.db.Model(&models.BudgetEntry{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.BudgetEntry
	if err := s.db.Where("user_id = ?", userID).
		Scopes(pagination.Paginate(page)).
		Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

// GetEntryByID returns one entry owned by the user.
func (s *budgetEntryService) GetEntryByID(userID, entryID string) (*models.BudgetEntry, error) {
	var entry models.BudgetEntry
	if err := s.db.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateEntry applies the fields set in update.
func (s *budgetEntryService) UpdateEntry(userID, entryID string, update BudgetEntryUpdate) (*models.BudgetEntry, error) {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Name != nil {
		entry.Name = strings.TrimSpace(*update.Name)
		updates["name"] = entry.Name
	}
	if update.Amount != nil {
		entry.Amount = *update.Amount
		updates["amount"] = entry.Amount
	}
	if update.DueDate != nil {
		entry.DueDate = calendar.Day(*update.DueDate)
		updates["due_date"] = entry.DueDate
	}
	if err := validateEntryFields(entry.Name, entry.Amount); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return entry, nil
	}

	if err := s.db.Model(entry).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// DeleteEntry soft-deletes an entry.
func (s *budgetEntryService) DeleteEntry(userID, entryID string) error {
	result := s.db.Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.BudgetEntry{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetEntryNotFound
	}
	return nil
}

// MarkPaid moves the due date one calendar month forward, clamped to the
// last day of shorter months.
func (s *budgetEntryService) MarkPaid(userID, entryID string) (*models.BudgetEntry, error) {
	entry, err := s.GetEntryByID(userID, entryID)
	if err != nil {
		return nil, err
	}

	entry.DueDate = calendar.AddMonthClamped(entry.DueDate)
	if err := s.db.Model(entry).Update("due_date", entry.DueDate).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}
