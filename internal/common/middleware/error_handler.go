package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telewall/internal/common/errors"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// ErrorResponse is the body of every failed request. Clients read Detail.
type ErrorResponse struct {
	Detail    string           `json:"detail" example:"insufficient_funds"`
	Code      errors.ErrorCode `json:"code" example:"VALIDATION_ERROR"`
	RequestID string           `json:"request_id,omitempty"`
}

// ErrorHandler recovers panics and renders them as internal errors.
func ErrorHandler(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithDetail("panic", fmt.Sprintf("%v", recovered))
		sendErrorResponse(c, appErr, logger)
	})
}

// RequestID propagates or generates X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// ErrorResponder renders the last error a handler pushed with c.Error.
func ErrorResponder(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
		}
		sendErrorResponse(c, appErr, logger)
	}
}

// Abort renders an error immediately, for middleware that must stop the chain.
func Abort(c *gin.Context, appErr *errors.AppError, logger zerolog.Logger) {
	sendErrorResponse(c, appErr, logger)
	c.Abort()
}

func sendErrorResponse(c *gin.Context, appErr *errors.AppError, logger zerolog.Logger) {
	requestID := getRequestID(c)

	appErr.WithRequestID(requestID)

	logError(appErr, logger, c)

	c.JSON(HTTPStatus(appErr), ErrorResponse{
		Detail:    appErr.Message,
		Code:      appErr.Code,
		RequestID: requestID,
	})
}

// HTTPStatus maps an error code to its response status.
func HTTPStatus(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation, errors.ErrCodeBadRequest, errors.ErrCodeItemInactive:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeUserNotFound, errors.ErrCodeItemNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidInitData:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeRateLimit:
		return http.StatusTooManyRequests
	case errors.ErrCodeInvoiceInProgress:
		return http.StatusServiceUnavailable
	case errors.ErrCodeTelegramAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func logError(appErr *errors.AppError, logger zerolog.Logger, c *gin.Context) {
	var event *zerolog.Event
	switch {
	case appErr.IsInternal():
		event = logger.Error()
	case appErr.IsUnauthorized():
		event = logger.Warn()
	default:
		event = logger.Info()
	}

	event = event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code))
	if len(appErr.Details) > 0 {
		event = event.Interface("details", appErr.Details)
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Msg(appErr.Message)
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
