package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/services"
)

// AdhocSettingsHandler handles the daily adhoc allowance.
type AdhocSettingsHandler struct {
	settingsService services.AdhocSettingsServicer
	auditService    services.AuditServicer
}

// NewAdhocSettingsHandler creates a new AdhocSettingsHandler.
func NewAdhocSettingsHandler(settingsService services.AdhocSettingsServicer, auditService services.AuditServicer) *AdhocSettingsHandler {
	return &AdhocSettingsHandler{settingsService: settingsService, auditService: auditService}
}

// UpdateAdhocSettingsRequest represents the request payload for the allowance.
type UpdateAdhocSettingsRequest struct {
	DailyAmount *decimal.Decimal `json:"daily_amount" binding:"required,gte=0,money" swaggertype:"string" example:"40.00"`
}

// GetSettings returns the allowance, creating the default on first read.
// @Summary     Get adhoc settings
// @Tags        adhoc-settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.AdhocSettings "Adhoc settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /adhoc-settings [get]
func (h *AdhocSettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"adhoc_settings": settings})
}

// UpdateSettings sets the daily allowance.
// @Summary     Update adhoc settings
// @Tags        adhoc-settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateAdhocSettingsRequest true "Daily amount"
// @Success     200 {object} models.AdhocSettings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /adhoc-settings [put]
func (h *AdhocSettingsHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAdhocSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpdateSettings(userID, *req.DailyAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, models.AuditUpdateAdhocSetting, "adhoc_settings", settings.ID, c.ClientIP(),
		map[string]interface{}{"daily_amount": settings.DailyAmount.String()})

	c.JSON(http.StatusOK, gin.H{"adhoc_settings": settings})
}
