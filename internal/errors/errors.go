// Package errors provides the AppError type returned by every service.
// Handlers map an AppError to its status code and a stable error code, so
// clients never see internal details.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so a wrapped or re-worded
// copy still satisfies errors.Is against its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInvalidDate    = &AppError{Code: "INVALID_DATE", Message: "Dates must use the YYYY-MM-DD format", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Budget entry errors.
var (
	ErrBudgetEntryNotFound = &AppError{Code: "BUDGET_ENTRY_NOT_FOUND", Message: "Budget entry not found", StatusCode: http.StatusNotFound}
)

// Pay period errors.
var (
	ErrPayPeriodNotFound = &AppError{Code: "PAY_PERIOD_NOT_FOUND", Message: "Pay period not found", StatusCode: http.StatusNotFound}
	ErrPeriodOutOfOrder  = &AppError{Code: "PERIOD_OUT_OF_ORDER", Message: "Periods must be in correct chronological order", StatusCode: http.StatusBadRequest}
	ErrNoActivePeriods   = &AppError{Code: "NO_ACTIVE_PERIODS", Message: "Create a current pay period first", StatusCode: http.StatusBadRequest}
	ErrPeriodSlotsFull   = &AppError{Code: "PERIOD_SLOTS_FULL", Message: "All four open pay periods already exist", StatusCode: http.StatusConflict}
	ErrCascadeConflict   = &AppError{Code: "CASCADE_CONFLICT", Message: "Pay periods were changed concurrently, please retry", StatusCode: http.StatusConflict}
	ErrPayPeriodConflict = &AppError{Code: "PAY_PERIOD_CONFLICT", Message: "Pay period was changed by another request, reload and retry", StatusCode: http.StatusConflict}
)

// Daily balance errors.
var (
	ErrDailyBalanceNotFound = &AppError{Code: "DAILY_BALANCE_NOT_FOUND", Message: "No balance recorded for this date", StatusCode: http.StatusNotFound}
)
