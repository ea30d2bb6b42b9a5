package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes
// directly; transport-level failures use the generic ones below.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"

	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "ALREADY_EXISTS"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// errorCodeStatus maps domain error codes to HTTP status codes.
// Codes missing from the table fall back to 500 so unclassified
// errors never masquerade as client faults.
var errorCodeStatus = map[string]int{
	ErrCodeValidation:     http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,
	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_AVATAR":      http.StatusBadRequest,
	"INVALID_PRICE":       http.StatusBadRequest,
	"INVALID_QUANTITY":    http.StatusBadRequest,
	"INVALID_STOCK":       http.StatusBadRequest,
	"INVALID_CATEGORY":    http.StatusBadRequest,
	"INVALID_SELLER":      http.StatusBadRequest,
	"INVALID_USER":        http.StatusBadRequest,
	"INVALID_STATUS":      http.StatusBadRequest,
	"INSUFFICIENT_STOCK":  http.StatusBadRequest,
	"SOCIAL_ACCOUNT":      http.StatusBadRequest,

	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,

	ErrCodeForbidden:      http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"USER_DEACTIVATED":    http.StatusForbidden,

	ErrCodeNotFound:  http.StatusNotFound,
	"USER_NOT_FOUND": http.StatusNotFound,

	ErrCodeConflict:            http.StatusConflict,
	"EMAIL_ALREADY_REGISTERED": http.StatusConflict,
	"CONCURRENCY_CONFLICT":     http.StatusConflict,

	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":        http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":      http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED":   http.StatusUnprocessableEntity,
	"ALREADY_DISCONTINUED":  http.StatusUnprocessableEntity,
	"NOT_LOCKED":            http.StatusUnprocessableEntity,

	"ACCOUNT_LOCKED": http.StatusLocked,

	ErrCodeRateLimited: http.StatusTooManyRequests,
	ErrCodeTooLarge:    http.StatusRequestEntityTooLarge,

	ErrCodeInternal:       http.StatusInternalServerError,
	"TOKEN_ERROR":         http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,

	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status for an error code, 500 when unknown.
func HTTPStatus(code string) int {
	if status, ok := errorCodeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
