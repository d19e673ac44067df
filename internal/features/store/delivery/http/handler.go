package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "telewall/internal/common/errors"
	"telewall/internal/features/store/service"
)

type StoreHandler struct {
	service service.StoreService
}

func NewStoreHandler(service service.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

func (h *StoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/store_items", h.ListItems)
}

// @Summary Store catalog
// @Tags store
// @Produce json
// @Param active_only query bool false "Only purchasable items" default(true)
// @Success 200 {array} models.StoreItem
// @Failure 400 {object} middleware.ErrorResponse
// @Router /store_items [get]
func (h *StoreHandler) ListItems(c *gin.Context) {
	activeOnly, err := strconv.ParseBool(c.DefaultQuery("active_only", "true"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("active_only", "must be a boolean"))
		return
	}

	items, err := h.service.ListItems(c.Request.Context(), activeOnly)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError("list store items", err))
		return
	}
	c.JSON(http.StatusOK, items)
}
