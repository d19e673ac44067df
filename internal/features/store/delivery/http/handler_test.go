package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/common/middleware"
	"telewall/internal/features/store/models"
	storeredis "telewall/internal/features/store/repository/redis"
	"telewall/internal/features/store/service"
)

func TestListItems(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := service.NewStoreService(storeredis.NewStoreRepository(client), nil, zerolog.Nop())
	catalog := service.DefaultCatalog()
	catalog[0].IsActive = false
	_, err := svc.Seed(context.Background(), catalog)
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.ErrorResponder(zerolog.Nop()))
	NewStoreHandler(svc).RegisterRoutes(router.Group("/api"))

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/api/store_items?active_only=true")
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.StoreItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 9)
	assert.Equal(t, "gift2", items[0].ID)

	w = get("/api/store_items?active_only=false")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 10)

	w = get("/api/store_items?active_only=maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
