package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "telewall/internal/common/errors"
	"telewall/internal/common/middleware"
	"telewall/internal/features/payment/models"
	"telewall/internal/features/payment/service"
)

const (
	IdempotencyKeyHeader = "X-Idempotency-Key"

	maxIdempotencyKeyLength = 128
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(service service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes mounts payment routes. auth must run before limit.
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup, auth, limit gin.HandlerFunc) {
	router.POST("/payments/create_invoice_link", auth, limit, h.CreateInvoiceLink)
	router.GET("/users/:id/inventory", h.Inventory)
}

// @Summary Create Stars invoice link
// @Description Returns a link for Telegram.WebApp.openInvoice. Repeating X-Idempotency-Key returns the same invoice.
// @Tags payments
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param X-Idempotency-Key header string false "Client attempt id"
// @Param request body models.CreateInvoiceRequest true "Item"
// @Success 200 {object} models.InvoiceLinkResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Failure 429 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /payments/create_invoice_link [post]
func (h *PaymentHandler) CreateInvoiceLink(c *gin.Context) {
	tgUser, ok := middleware.TelegramUser(c)
	if !ok {
		_ = c.Error(apperrors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	var req models.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("store_item_id", "is required"))
		return
	}

	idemKey := c.GetHeader(IdempotencyKeyHeader)
	if len(idemKey) > maxIdempotencyKeyLength {
		_ = c.Error(apperrors.NewValidationError(IdempotencyKeyHeader, "is too long"))
		return
	}

	resp, err := h.service.CreateInvoiceLink(c.Request.Context(), tgUser.ID, req.StoreItemID, idemKey)
	if err != nil {
		_ = c.Error(toAppError(err, req.StoreItemID))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary User inventory
// @Description Items granted by settled payments, newest first.
// @Tags payments
// @Produce json
// @Param id path string true "User ID or Telegram ID"
// @Success 200 {array} models.InventoryEntry
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/{id}/inventory [get]
func (h *PaymentHandler) Inventory(c *gin.Context) {
	entries, err := h.service.Inventory(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(toAppError(err, ""))
		return
	}
	c.JSON(http.StatusOK, entries)
}

func toAppError(err error, itemID string) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeUserNotFound, "User not found")
	case errors.Is(err, service.ErrItemNotFound):
		return apperrors.NewItemNotFoundError(itemID)
	case errors.Is(err, service.ErrItemInactive):
		return apperrors.NewItemInactiveError(itemID)
	case errors.Is(err, service.ErrIdempotencyConflict):
		return apperrors.NewConflictError(err)
	case errors.Is(err, service.ErrInvoiceInProgress):
		return apperrors.NewInvoiceInProgressError(err)
	case errors.Is(err, service.ErrInvoiceProvider):
		return apperrors.NewTelegramAPIError("createInvoiceLink", err)
	default:
		return apperrors.NewDatabaseError("payment", err)
	}
}
