package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "telewall/internal/common/errors"
	"telewall/internal/common/middleware"
	"telewall/internal/features/user/models"
	"telewall/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// RegisterRoutes mounts the user routes; auth guards profile edits.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/auth/telegram_login", h.TelegramLogin)

	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.SearchUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", auth, h.UpdateUser)
	}
}

// @Summary Log in with Telegram init data
// @Description Validates the Mini App init-data string and returns the caller's profile, creating it on first login.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Raw init data"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} middleware.ErrorResponse "Malformed body"
// @Failure 401 {object} middleware.ErrorResponse "Invalid init data"
// @Router /auth/telegram_login [post]
func (h *UserHandler) TelegramLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("init_data_str", err.Error()))
		return
	}

	profile, err := h.service.Login(c.Request.Context(), req.InitDataStr)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Create user (deprecated)
// @Description Legacy bootstrap. Returns the existing profile when telegram_id is already registered.
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "Profile"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} middleware.ErrorResponse
// @Deprecated
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", err.Error()))
		return
	}

	profile, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}

	c.JSON(http.StatusOK, profile)
}

// @Summary Search users
// @Description Case-insensitive substring match on name and username.
// @Tags users
// @Produce json
// @Param q query string true "Search term"
// @Param limit query int false "Max results" default(20)
// @Success 200 {object} models.UsersResponse
// @Router /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		_ = c.Error(apperrors.NewValidationError("limit", "must be a positive integer"))
		return
	}

	users, err := h.service.SearchUsers(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}

	resp := models.UsersResponse{Items: make([]models.UserProfile, 0, len(users))}
	for _, u := range users {
		resp.Items = append(resp.Items, *u)
	}
	resp.Total = len(resp.Items)
	c.JSON(http.StatusOK, resp)
}

// @Summary Get user
// @Description Looks up by internal id, then by telegram id.
// @Tags users
// @Produce json
// @Param id path string true "User ID or Telegram ID"
// @Success 200 {object} models.UserProfile
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path string true "User ID"
// @Param request body models.UpdateUserRequest true "Changed fields"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	tgUser, ok := middleware.TelegramUser(c)
	if !ok {
		_ = c.Error(apperrors.NewUnauthorizedError("Telegram init data required"))
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewValidationError("body", err.Error()))
		return
	}

	target, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	if target.TelegramID != strconv.FormatInt(tgUser.ID, 10) {
		_ = c.Error(apperrors.NewForbiddenError("You can only edit your own profile"))
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), target.ID, req)
	if err != nil {
		_ = c.Error(toAppError(err))
		return
	}
	c.JSON(http.StatusOK, user)
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.New(apperrors.ErrCodeUserNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidInitData):
		return apperrors.NewInvalidInitDataError(err)
	case errors.Is(err, service.ErrInvalidInput):
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	default:
		return apperrors.NewDatabaseError("user", err)
	}
}
