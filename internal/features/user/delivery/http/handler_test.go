package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/common/middleware"
	"telewall/internal/features/user/models"
	userredis "telewall/internal/features/user/repository/redis"
	"telewall/internal/features/user/service"
	"telewall/internal/platform/telegram"
)

const testToken = "123456:test-token"

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.Nop()
	svc := service.NewUserService(userredis.NewUserRepository(client), testToken, time.Hour, logger)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorResponder(logger))
	NewUserHandler(svc).RegisterRoutes(router.Group("/api"), middleware.InitData(testToken, time.Hour, logger))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func initData(t *testing.T, id int64, first string) string {
	t.Helper()
	raw, err := telegram.SignInitData(testToken, telegram.WebAppUser{ID: id, FirstName: first, Username: "user" + first}, "AAH", time.Now())
	require.NoError(t, err)
	return raw
}

func TestTelegramLogin(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/telegram_login", models.LoginRequest{InitDataStr: initData(t, 42, "Daniil")}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "42", profile.TelegramID)
	assert.Equal(t, "Daniil", profile.Name)
	assert.NotEmpty(t, profile.ID)
}

func TestTelegramLogin_InvalidInitData(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/telegram_login", models.LoginRequest{InitDataStr: "user=%7B%7D&hash=deadbeef"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid Telegram init data", resp.Detail)
	assert.NotEmpty(t, resp.RequestID)
}

func TestTelegramLogin_MissingBody(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/telegram_login", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAndGetUser(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/users", models.CreateUserRequest{TelegramID: "12345", Name: "Daniil Shelesteev", Username: "marnitic"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var created models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodGet, "/api/users/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/users/12345", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/users/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchUsers(t *testing.T) {
	router := setupRouter(t)

	doJSON(t, router, http.MethodPost, "/api/users", models.CreateUserRequest{TelegramID: "1", Name: "Мария Иванова", Username: "mashavanova"}, nil)
	doJSON(t, router, http.MethodPost, "/api/users", models.CreateUserRequest{TelegramID: "2", Name: "Дмитрий Волков", Username: "dmitryvolkov"}, nil)

	w := doJSON(t, router, http.MethodGet, "/api/users?q=volk", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.UsersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "dmitryvolkov", resp.Items[0].Username)

	w = doJSON(t, router, http.MethodGet, "/api/users?q=a&limit=zero", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUser_OwnershipEnforced(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/telegram_login", models.LoginRequest{InitDataStr: initData(t, 7, "Owner")}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var owner models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &owner))

	description := "hello wall"
	body := models.UpdateUserRequest{Description: &description}

	w = doJSON(t, router, http.MethodPut, "/api/users/"+owner.ID, body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/users/"+owner.ID, body, map[string]string{
		middleware.InitDataHeader: initData(t, 8, "Stranger"),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPut, "/api/users/"+owner.ID, body, map[string]string{
		middleware.InitDataHeader: initData(t, 7, "Owner"),
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, description, updated.Description)
}
