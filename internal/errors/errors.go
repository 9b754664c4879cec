// Package errors provides custom error types for the sportfund API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
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

// Is matches AppErrors by code so wrapped copies compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
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
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Athlete and season-stats errors.
var (
	ErrAthleteNotFound    = &AppError{Code: "ATHLETE_NOT_FOUND", Message: "Athlete not found", StatusCode: http.StatusNotFound}
	ErrSportNotRecognized = &AppError{Code: "SPORT_NOT_RECOGNIZED", Message: "Sport not recognized", StatusCode: http.StatusNotFound}
	ErrSportMismatch      = &AppError{Code: "SPORT_MISMATCH", Message: "Stats sport does not match the athlete's primary sport", StatusCode: http.StatusBadRequest}
	ErrStatsNotFound      = &AppError{Code: "STATS_NOT_FOUND", Message: "No season stats recorded for this sport", StatusCode: http.StatusNotFound}
)

// Career goal errors.
var (
	ErrCareerGoalNotFound = &AppError{Code: "CAREER_GOAL_NOT_FOUND", Message: "Career goal not found", StatusCode: http.StatusNotFound}
	ErrMilestoneNotFound  = &AppError{Code: "MILESTONE_NOT_FOUND", Message: "Milestone not found", StatusCode: http.StatusNotFound}
)

// Purchase request errors.
var (
	ErrPurchaseRequestNotFound = &AppError{Code: "PURCHASE_REQUEST_NOT_FOUND", Message: "Purchase request not found", StatusCode: http.StatusNotFound}
	ErrInvalidPurchaseStatus   = &AppError{Code: "INVALID_PURCHASE_STATUS", Message: "Unsupported purchase request status", StatusCode: http.StatusBadRequest}
)

// Investment errors.
var (
	ErrBelowMinimumInvestment = &AppError{Code: "BELOW_MINIMUM_INVESTMENT", Message: "Amount is below the athlete's minimum investment", StatusCode: http.StatusBadRequest}
)
