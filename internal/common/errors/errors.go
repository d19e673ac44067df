// Package errors holds the typed error every HTTP handler reports through
// c.Error. The middleware renders it as {detail, code, request_id}.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode identifies the class of an application error.
type ErrorCode string

const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeRateLimit       ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidInitData ErrorCode = "INVALID_INIT_DATA"

	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeItemNotFound ErrorCode = "ITEM_NOT_FOUND"
	ErrCodeItemInactive ErrorCode = "ITEM_INACTIVE"

	// The same idempotency key is still creating its invoice; retry later.
	ErrCodeInvoiceInProgress ErrorCode = "INVOICE_IN_PROGRESS"

	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeTelegramAPI   ErrorCode = "TELEGRAM_API_ERROR"
)

// AppError is a typed application error. Message is what clients see as detail.
type AppError struct {
	Code      ErrorCode
	Message   string
	Details   map[string]any
	RequestID string
	Cause     error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || e.Code == ErrCodeUserNotFound || e.Code == ErrCodeItemNotFound
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest || e.Code == ErrCodeItemInactive
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden || e.Code == ErrCodeInvalidInitData
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodeDatabaseError || e.Code == ErrCodeTelegramAPI
}

// WithDetail attaches a structured detail. Details are logged, not returned.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("%s: %s", field, reason)).
		WithDetail("field", field)
}

func NewUserNotFoundError(userID string) *AppError {
	return New(ErrCodeUserNotFound, "User not found").
		WithDetail("user_id", userID)
}

func NewItemNotFoundError(itemID string) *AppError {
	return New(ErrCodeItemNotFound, "Store item not found").
		WithDetail("store_item_id", itemID)
}

// NewItemInactiveError is returned when a delisted item is bought.
func NewItemInactiveError(itemID string) *AppError {
	return New(ErrCodeItemInactive, "Store item is not available").
		WithDetail("store_item_id", itemID)
}

func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, reason)
}

func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, reason)
}

func NewInvalidInitDataError(err error) *AppError {
	return Wrap(err, ErrCodeInvalidInitData, "Invalid Telegram init data")
}

// NewConflictError reports an idempotency key reused for a different item.
func NewConflictError(err error) *AppError {
	return Wrap(err, ErrCodeConflict, err.Error())
}

// NewInvoiceInProgressError answers a retry that arrived while the first
// request with the same key is still waiting on the Bot API.
func NewInvoiceInProgressError(err error) *AppError {
	return Wrap(err, ErrCodeInvoiceInProgress, "Invoice is still being created, retry shortly")
}

func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewTelegramAPIError(method string, err error) *AppError {
	return Wrap(err, ErrCodeTelegramAPI, "Telegram Bot API request failed").
		WithDetail("method", method)
}

func NewRateLimitError(scope string, retryAfter time.Duration) *AppError {
	return New(ErrCodeRateLimit, fmt.Sprintf("Too many %s requests, retry in %s", scope, retryAfter)).
		WithDetail("scope", scope)
}

// AsAppError finds an *AppError anywhere in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
