package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/werner-traut/budget/internal/calendar"
	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/models"
	"github.com/werner-traut/budget/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BalanceHistoryHandler serves projection snapshots.
type BalanceHistoryHandler struct {
	historyService services.BalanceHistoryServicer
	limit          int
}

// NewBalanceHistoryHandler creates a new BalanceHistoryHandler returning at
// most limit rows unless the request asks for fewer.
func NewBalanceHistoryHandler(historyService services.BalanceHistoryServicer, limit int) *BalanceHistoryHandler {
	return &BalanceHistoryHandler{historyService: historyService, limit: limit}
}

// resolveLimit reads ?limit=, capped at the configured maximum.
func (h *BalanceHistoryHandler) resolveLimit(c *gin.Context) (int, error) {
	v := c.Query("limit")
	if v == "" {
		return h.limit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer")
	}
	if n > h.limit {
		n = h.limit
	}
	return n, nil
}

// ListHistory returns the most recent snapshots, oldest first.
// @Summary     List balance history
// @Tags        balance-history
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum rows (default and cap from BALANCE_HISTORY_LIMIT)"
// @Success     200 {array}  models.BalanceHistory "Snapshots in ascending date order"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance-history [get]
func (h *BalanceHistoryHandler) ListHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := h.resolveLimit(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rows, err := h.historyService.GetRecent(userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if rows == nil {
		rows = []models.BalanceHistory{}
	}

	c.JSON(http.StatusOK, gin.H{"balance_history": rows})
}

// ExportHistory downloads the recent snapshots as a spreadsheet.
// @Summary     Export balance history
// @Tags        balance-history
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    BearerAuth
// @Param       limit query int false "Maximum rows (default and cap from BALANCE_HISTORY_LIMIT)"
// @Success     200 {file}   file "xlsx workbook"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /balance-history/export [get]
func (h *BalanceHistoryHandler) ExportHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit, err := h.resolveLimit(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.historyService.Export(userID, limit, &buf); err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("balance-history-%s.xlsx", calendar.Format(currentDay(c)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
