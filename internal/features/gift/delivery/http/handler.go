package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "telewall/internal/common/errors"
	"telewall/internal/features/gift/models"
	"telewall/internal/features/gift/service"
)

type GiftHandler struct {
	service service.GiftService
}

func NewGiftHandler(service service.GiftService) *GiftHandler {
	return &GiftHandler{service: service}
}

func (h *GiftHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/gifts", h.SendGift)
	router.GET("/users/:id/gifts", h.ListReceived)
}

// @Summary Send gift
// @Tags gifts
// @Accept json
// @Produce json
// @Param request body models.CreateGiftRequest true "Gift"
// @Success 200 {object} models.Gift
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /gifts [post]
func (h *GiftHandler) SendGift(c *gin.Context) {
	var req models.CreateGiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", err.Error()))
		return
	}

	gift, err := h.service.SendGift(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.JSON(http.StatusOK, gift)
}

// @Summary Received gifts
// @Tags gifts
// @Produce json
// @Param id path string true "User ID or Telegram ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.Gift
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/{id}/gifts [get]
func (h *GiftHandler) ListReceived(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	gifts, err := h.service.ListReceived(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.JSON(http.StatusOK, gifts)
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeUserNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidInput):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	default:
		return apperrors.NewDatabaseError("gift", err)
	}
}
