package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/pagination"
	"github.com/werner-traut/budget/internal/services"
)

// BudgetEntryHandler handles scheduled expense requests.
type BudgetEntryHandler struct {
	entryService services.BudgetEntryServicer
	auditService services.AuditServicer
}

// NewBudgetEntryHandler creates a new BudgetEntryHandler.
func NewBudgetEntryHandler(entryService services.BudgetEntryServicer, auditService services.AuditServicer) *BudgetEntryHandler {
	return &BudgetEntryHandler{entryService: entryService, auditService: auditService}
}

// CreateBudgetEntryRequest represents the request payload for creating an entry.
type CreateBudgetEntryRequest struct {
	Name    string           `json:"name" binding:"required,min=1,max=100"`
	Amount  *decimal.Decimal `json:"amount" binding:"required,gte=0,money" swaggertype:"string" example:"1200.00"`
	DueDate string           `json:"due_date" binding:"required" example:"2024-02-01"`
}

// UpdateBudgetEntryRequest represents the request payload for updating an entry.
type UpdateBudgetEntryRequest struct {
	Name    *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Amount  *decimal.Decimal `json:"amount" binding:"omitempty,gte=0,money" swaggertype:"string" example:"1200.00"`
	DueDate *string          `json:"due_date" example:"2024-02-01"`
}

// CreateEntry handles the creation of a new budget entry.
// @Summary     Create a budget entry
// @Description Create a scheduled expense due on a calendar day
// @Tags        budget-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetEntryRequest true "Entry details"
// @Success     201 {object} models.BudgetEntry "Entry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-entries [post]
func (h *BudgetEntryHandler) CreateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseDay(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entryService.CreateEntry(userID, req.Name, *req.Amount, dueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditCreateBudgetEntry, "budget_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"name": entry.Name, "amount": entry.Amount.String(), "due_date": req.DueDate})

	c.JSON(http.StatusCreated, gin.H{"budget_entry": entry})
}

// ListEntries handles listing budget entries for the authenticated user.
// @Summary     List budget entries
// @Description Get a paginated list of entries, ordered by due date unless sort says otherwise
// @Tags        budget-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Param       sort      query string false "due_date, amount, name or created_at; prefix with - for descending"
// @Success     200 {object} pagination.PageResponse[models.BudgetEntry] "Paginated entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-entries [get]
func (h *BudgetEntryHandler) ListEntries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.entryService.ListEntries(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetEntry handles retrieving a specific budget entry.
// @Summary     Get budget entry by ID
// @Tags        budget-entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} models.BudgetEntry "Entry details"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-entries/{id} [get]
func (h *BudgetEntryHandler) GetEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entryService.GetEntryByID(userID, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget_entry": entry})
}

// UpdateEntry handles a partial update of a budget entry.
// @Summary     Update budget entry
// @Tags        budget-entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Entry ID"
// @Param       request body UpdateBudgetEntryRequest true "Fields to change"
// @Success     200 {object} models.BudgetEntry "Updated entry"
// @Failure     400 {object} ErrorResponse "Invalid input or entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-entries/{id} [put]
func (h *BudgetEntryHandler) UpdateEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.BudgetEntryUpdate{Name: req.Name, Amount: req.Amount}
	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Amount != nil {
		changes["amount"] = req.Amount.String()
	}
	if req.DueDate != nil {
		dueDate, err := parseDay(*req.DueDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.DueDate = &dueDate
		changes["due_date"] = *req.DueDate
	}

	entry, err := h.entryService.UpdateEntry(userID, entryID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUpdateBudgetEntry, "budget_entry", entry.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"budget_entry": entry})
}

// DeleteEntry handles deleting a budget entry.
// @Summary     Delete budget entry
// @Tags        budget-entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} map[string]string "Entry deleted"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-entries/{id} [delete]
func (h *BudgetEntryHandler) DeleteEntry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entryService.DeleteEntry(userID, entryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditDeleteBudgetEntry, "budget_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget entry deleted successfully"})
}

// MarkPaid moves an entry's due date forward one month.
// @Summary     Mark budget entry as paid
// @Description Advance the due date by one calendar month, clamped to the month's last day
// @Tags        budget-entries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     200 {object} models.BudgetEntry "Entry with its next due date"
// @Failure     400 {object} ErrorResponse "Invalid entry ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget-entries/{id}/paid [post]
func (h *BudgetEntryHandler) MarkPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entryService.MarkPaid(userID, entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditMarkEntryPaid, "budget_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"due_date": entry.DueDate.Format("2006-01-02")})

	c.JSON(http.StatusOK, gin.H{"budget_entry": entry})
}
