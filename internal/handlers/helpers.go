package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/werner-traut/budget/internal/calendar"
	apperrors "github.com/werner-traut/budget/internal/errors"
	"github.com/werner-traut/budget/internal/logger"
	"github.com/werner-traut/budget/internal/middleware"
	"github.com/werner-traut/budget/internal/uuid"
)

// now is the server clock; tests replace it.
var now = time.Now

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", apperrors.ErrUnauthorized
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseDay reads a calendar day, mapping failures to ErrInvalidDate.
func parseDay(s string) (time.Time, error) {
	d, err := calendar.ParseDay(s)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidDate, "Invalid date "+s)
	}
	return d, nil
}

// currentDay returns the server's UTC day for the request. Routes that
// cascade or record snapshots must use it; clients cannot pick the day.
func currentDay(c *gin.Context) time.Time {
	if day, ok := middleware.Today(c); ok {
		return day
	}
	return calendar.Day(now())
}

// pipelineDay lets a trusted pipeline caller replay a missed run with
// ?today=, but never for a day after the server's own.
func pipelineDay(c *gin.Context) (time.Time, error) {
	today := currentDay(c)
	v := c.Query("today")
	if v == "" {
		return today, nil
	}
	day, err := parseDay(v)
	if err != nil {
		return time.Time{}, err
	}
	if day.After(today) {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidDate,
			"today cannot be later than "+calendar.Format(today))
	}
	return day, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
