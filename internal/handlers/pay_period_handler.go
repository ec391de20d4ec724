package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/services"
)

// PayPeriodHandler handles pay period requests, including the cascade trigger.
type PayPeriodHandler struct {
	periodService services.PayPeriodServicer
	auditService  services.AuditServicer
}

// NewPayPeriodHandler creates a new PayPeriodHandler.
func NewPayPeriodHandler(periodService services.PayPeriodServicer, auditService services.AuditServicer) *PayPeriodHandler {
	return &PayPeriodHandler{periodService: periodService, auditService: auditService}
}

// CreatePayPeriodRequest represents the request payload for creating a period.
type CreatePayPeriodRequest struct {
	PeriodType   models.PeriodType `json:"period_type" binding:"required,period_type" example:"NEXT_PERIOD"`
	StartDate    string            `json:"start_date" binding:"required" example:"2024-01-31"`
	SalaryAmount *decimal.Decimal  `json:"salary_amount" binding:"required,gt=0,money" swaggertype:"string" example:"2000.00"`
}

// UpdatePayPeriodRequest represents the request payload for updating a period.
type UpdatePayPeriodRequest struct {
	PeriodType   *models.PeriodType `json:"period_type" binding:"omitempty,period_type" example:"PERIOD_AFTER"`
	StartDate    *string            `json:"start_date" example:"2024-02-15"`
	SalaryAmount *decimal.Decimal   `json:"salary_amount" binding:"omitempty,gt=0,money" swaggertype:"string" example:"2000.00"`
}

// ListPeriods returns the user's pay periods in chronological order.
// @Summary     List pay periods
// @Description Open periods ordered by start date; closed periods on request
// @Tags        pay-periods
// @Produce     json
// @Security    BearerAuth
// @Param       include_closed query bool false "Include CLOSED_PERIOD rows"
// @Success     200 {array}  models.PayPeriod "Pay periods"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pay-periods [get]
func (h *PayPeriodHandler) ListPeriods(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	includeClosed := false
	if v := c.Query("include_closed"); v != "" {
		includeClosed, err = strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "include_closed must be a boolean"))
			return
		}
	}

	periods, err := h.periodService.GetUserPeriods(userID, includeClosed)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if periods == nil {
		periods = []models.PayPeriod{}
	}

	c.JSON(http.StatusOK, gin.H{"pay_periods": periods})
}

// CreatePeriod stores a new pay period after checking label order.
// @Summary     Create a pay period
// @Tags        pay-periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePayPeriodRequest true "Period details"
// @Success     201 {object} models.PayPeriod "Period created"
// @Failure     400 {object} ErrorResponse "Invalid input or PERIOD_OUT_OF_ORDER"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pay-periods [post]
func (h *PayPeriodHandler) CreatePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePayPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseDay(req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodService.CreatePeriod(userID, req.PeriodType, startDate, *req.SalaryAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditCreatePayPeriod, "pay_period", period.ID, c.ClientIP(),
		map[string]interface{}{"period_type": period.PeriodType, "start_date": req.StartDate})

	c.JSON(http.StatusCreated, gin.H{"pay_period": period})
}

// GetPeriod returns one pay period.
// @Summary     Get pay period by ID
// @Tags        pay-periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Period ID"
// @Success     200 {object} models.PayPeriod "Period details"
// @Failure     400 {object} ErrorResponse "Invalid period ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pay-periods/{id} [get]
func (h *PayPeriodHandler) GetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, err := h.periodService.GetPeriodByID(userID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pay_period": period})
}

// UpdatePeriod applies a partial update to a pay period.
// @Summary     Update pay period
// @Tags        pay-periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Period ID"
// @Param       request body UpdatePayPeriodRequest true "Fields to change"
// @Success     200 {object} models.PayPeriod "Updated period"
// @Failure     400 {object} ErrorResponse "Invalid input or PERIOD_OUT_OF_ORDER"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Period not found"
// @Failure     409 {object} ErrorResponse "PAY_PERIOD_CONFLICT when edited concurrently"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pay-periods/{id} [put]
func (h *PayPeriodHandler) UpdatePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePayPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.PayPeriodUpdate{PeriodType: req.PeriodType, SalaryAmount: req.SalaryAmount}
	if req.StartDate != nil {
		startDate, err := parseDay(*req.StartDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.StartDate = &startDate
	}

	period, err := h.periodService.UpdatePeriod(userID, periodID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUpdatePayPeriod, "pay_period", period.ID, c.ClientIP(),
		map[string]interface{}{"period_type": period.PeriodType, "version": period.Version})

	c.JSON(http.StatusOK, gin.H{"pay_period": period})
}

// AddNextPeriod appends the period that follows the latest open one.
// @Summary     Add the next pay period
// @Description Cascades if due, then creates the next free label starting on the following payday. Labels only shift when the next period has started, so with CURRENT, NEXT, AFTER and FUTURE all open and no cascade due the call returns 409 PERIOD_SLOTS_FULL; retry once the next period begins.
// @Tags        pay-periods
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} models.PayPeriod "Period created"
// @Failure     400 {object} ErrorResponse "NO_ACTIVE_PERIODS"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "PERIOD_SLOTS_FULL: all four labels are open and no cascade is due"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pay-periods/next [post]
func (h *PayPeriodHandler) AddNextPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	today := currentDay(c)

	period, err := h.periodService.AddNextPeriod(userID, today)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditAddNextPayPeriod, "pay_period", period.ID, c.ClientIP(),
		map[string]interface{}{"period_type": period.PeriodType, "start_date": period.StartDate.Format("2006-01-02")})

	c.JSON(http.StatusCreated, gin.H{"pay_period": period})
}

// Cascade advances the period labels when the next period has started.
// @Summary     Cascade pay periods
// @Description Relabels periods once NEXT_PERIOD has started; a no-op otherwise
// @Tags        pay-periods
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.CascadeResult "Cascade outcome"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Concurrent cascade could not complete"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pay-periods/cascade [post]
func (h *PayPeriodHandler) Cascade(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	today := currentDay(c)

	result, err := h.periodService.CascadeIfDue(userID, today)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.Cascaded {
		h.auditService.Log(userID, models.AuditCascadePayPeriods, "pay_period", "", c.ClientIP(),
			map[string]interface{}{"rounds": result.Rounds})
	}

	c.JSON(http.StatusOK, result)
}

// PipelineCascade runs the cascade for every user whose next period has started.
// @Summary     Cascade all users
// @Description Service-to-service twin of the nightly scheduler
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header string true "Pipeline API key"
// @Param       today     query  string false "Replay a past day (YYYY-MM-DD); later than the server day is rejected"
// @Success     200 {object} services.CascadeRunSummary "Run summary"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /pipeline/cascade [post]
func (h *PayPeriodHandler) PipelineCascade(c *gin.Context) {
	today, err := pipelineDay(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Pipeline callers only read the status and error code, so failures are
	// left for middleware.ErrorHandler to render.
	summary, err := h.periodService.CascadeAllUsers(c.Request.Context(), today)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
