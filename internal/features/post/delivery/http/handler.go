package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "telewall/internal/common/errors"
	"telewall/internal/features/post/models"
	"telewall/internal/features/post/service"
)

type PostHandler struct {
	service service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/posts", h.CreatePost)
	router.GET("/posts", h.ListPosts)
	router.GET("/users/:id/posts", h.ListUserPosts)
}

// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body models.CreatePostRequest true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", err.Error()))
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(toAppError(err, req.UserID))
		return
	}
	c.JSON(http.StatusOK, post)
}

// @Summary Feed
// @Description Newest first.
// @Tags posts
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.Post
// @Router /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}

	posts, err := h.service.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(toAppError(err, ""))
		return
	}
	c.JSON(http.StatusOK, posts)
}

// @Summary User wall
// @Tags posts
// @Produce json
// @Param id path string true "User ID or Telegram ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} models.Post
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/{id}/posts [get]
func (h *PostHandler) ListUserPosts(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}

	userID := c.Param("id")
	posts, err := h.service.ListUserPosts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		_ = c.Error(toAppError(err, userID))
		return
	}
	c.JSON(http.StatusOK, posts)
}

func pageParams(c *gin.Context) (int, int, bool) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("limit", "must be an integer"))
		return 0, 0, false
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("offset", "must be an integer"))
		return 0, 0, false
	}
	return limit, offset, true
}

func toAppError(err error, userID string) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.NewUserNotFoundError(userID)
	case errors.Is(err, service.ErrInvalidInput):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	default:
		return apperrors.NewDatabaseError("post", err)
	}
}
