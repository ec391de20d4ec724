package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/services"
)

// DailyBalanceHandler handles reported bank balances.
type DailyBalanceHandler struct {
	balanceService services.DailyBalanceServicer
	auditService   services.AuditServicer
}

// NewDailyBalanceHandler creates a new DailyBalanceHandler.
func NewDailyBalanceHandler(balanceService services.DailyBalanceServicer, auditService services.AuditServicer) *DailyBalanceHandler {
	return &DailyBalanceHandler{balanceService: balanceService, auditService: auditService}
}

// UpsertDailyBalanceRequest represents the request payload for a balance.
// Date defaults to today.
type UpsertDailyBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" binding:"required,money" swaggertype:"string" example:"1523.40"`
	Date    *string          `json:"date" example:"2024-01-15"`
}

// GetBalance returns the latest balance, or the one for ?date=. A missing
// balance is reported as null rather than an error.
// @Summary     Get daily balance
// @Tags        daily-balance
// @Produce     json
// @Security    BearerAuth
// @Param       date query string false "Calendar day (YYYY-MM-DD)"
// @Success     200 {object} models.DailyBalance "Balance or null"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /daily-balance [get]
func (h *DailyBalanceHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var balance *models.DailyBalance
	if v := c.Query("date"); v != "" {
		date, perr := parseDay(v)
		if perr != nil {
			respondWithError(c, perr)
			return
		}
		balance, err = h.balanceService.GetByDate(userID, date)
	} else {
		balance, err = h.balanceService.GetLatest(userID)
	}
	if err != nil && !errors.Is(err, apperrors.ErrDailyBalanceNotFound) {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"daily_balance": balance})
}

// UpsertBalance records the balance for a day, replacing any earlier value.
// @Summary     Record daily balance
// @Tags        daily-balance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpsertDailyBalanceRequest true "Balance details"
// @Success     200 {object} models.DailyBalance "Stored balance"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /daily-balance [post]
func (h *DailyBalanceHandler) UpsertBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertDailyBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := currentDay(c)
	if req.Date != nil {
		if date, err = parseDay(*req.Date); err != nil {
			respondWithError(c, err)
			return
		}
	}

	balance, err := h.balanceService.UpsertBalance(userID, date, *req.Balance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUpsertDailyBalance, "daily_balance", balance.ID, c.ClientIP(),
		map[string]interface{}{"date": date.Format("2006-01-02"), "balance": balance.Balance.String()})

	c.JSON(http.StatusOK, gin.H{"daily_balance": balance})
}
