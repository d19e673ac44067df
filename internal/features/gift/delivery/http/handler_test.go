package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/common/middleware"
	"telewall/internal/features/gift/models"
	"telewall/internal/features/gift/service"
)

type fakeGiftService struct {
	sent []models.CreateGiftRequest
}

func (f *fakeGiftService) SendGift(_ context.Context, req models.CreateGiftRequest) (*models.Gift, error) {
	switch {
	case req.ReceiverID == "ghost":
		return nil, service.ErrUserNotFound
	case req.Type == "toolong":
		return nil, fmt.Errorf("%w: gift type must be 1-64 characters", service.ErrInvalidInput)
	}
	f.sent = append(f.sent, req)
	return &models.Gift{ID: "g1", Type: req.Type, SenderID: req.SenderID, ReceiverID: req.ReceiverID, Status: models.StatusActive}, nil
}

func (f *fakeGiftService) ListReceived(_ context.Context, id string, limit, offset int) ([]*models.Gift, error) {
	if id == "ghost" {
		return nil, service.ErrUserNotFound
	}
	return []*models.Gift{{ID: "g1", Type: "gift1", ReceiverID: id, Status: models.StatusActive}}, nil
}

func setupRouter(svc service.GiftService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorResponder(zerolog.Nop()))
	NewGiftHandler(svc).RegisterRoutes(router.Group("/api"))
	return router
}

func perform(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendGift(t *testing.T) {
	svc := &fakeGiftService{}
	router := setupRouter(svc)

	w := perform(router, http.MethodPost, "/api/gifts", models.CreateGiftRequest{Type: "gift1", SenderID: "u1", ReceiverID: "u2", Message: "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	var gift models.Gift
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gift))
	assert.Equal(t, "g1", gift.ID)
	assert.Equal(t, models.StatusActive, gift.Status)
	require.Len(t, svc.sent, 1)
	assert.Equal(t, "hi", svc.sent[0].Message)
}

func TestSendGift_Errors(t *testing.T) {
	router := setupRouter(&fakeGiftService{})

	w := perform(router, http.MethodPost, "/api/gifts", map[string]string{"type": "gift1"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "sender and receiver are required")

	w = perform(router, http.MethodPost, "/api/gifts", models.CreateGiftRequest{Type: "toolong", SenderID: "u1", ReceiverID: "u2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPost, "/api/gifts", models.CreateGiftRequest{Type: "gift1", SenderID: "u1", ReceiverID: "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User not found", resp.Detail)
}

func TestListReceived(t *testing.T) {
	router := setupRouter(&fakeGiftService{})

	w := perform(router, http.MethodGet, "/api/users/u2/gifts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var gifts []models.Gift
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gifts))
	require.Len(t, gifts, 1)
	assert.Equal(t, "u2", gifts[0].ReceiverID)

	w = perform(router, http.MethodGet, "/api/users/ghost/gifts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
