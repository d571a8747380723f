package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// Stable error codes surfaced to API clients. Handlers map these to HTTP
// statuses; the core never retries VALIDATION_ERROR/NOT_FOUND/PERMISSION_DENIED.
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeNotFound             = "NOT_FOUND"
	CodePermissionDenied     = "PERMISSION_DENIED"
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeInsufficientStock    = "INSUFFICIENT_STOCK"
	CodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	CodeOrderConfirmed       = "ORDER_ALREADY_CONFIRMED"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeConflict             = "CONFLICT"
	CodeDraftProcessed       = "DRAFT_ALREADY_PROCESSED"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func NewAppError(code string, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func ValidationError(format string, args ...any) *AppError {
	return NewAppError(CodeValidationError, fmt.Sprintf(format, args...))
}

func NotFoundError(resource string) *AppError {
	return NewAppError(CodeNotFound, resource+" not found")
}

func AuthorizationError(message string) *AppError {
	return NewAppError(CodePermissionDenied, message)
}

func InsufficientStockError(format string, args ...any) *AppError {
	return NewAppError(CodeInsufficientStock, fmt.Sprintf(format, args...))
}

func InsufficientBalanceError(format string, args ...any) *AppError {
	return NewAppError(CodeInsufficientBalance, fmt.Sprintf(format, args...))
}

func OrderAlreadyConfirmedError() *AppError {
	return NewAppError(CodeOrderConfirmed, "order has already been confirmed")
}

func InvalidTransitionError(from string, event string) *AppError {
	return NewAppError(CodeInvalidTransition, fmt.Sprintf("cannot %s an order in %s status", event, from))
}

func ConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message)
}

// ErrorCode extracts the stable code from err, or empty if err carries none.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
