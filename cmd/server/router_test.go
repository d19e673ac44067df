package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/common/config"
	giftRepo "telewall/internal/features/gift/repository/redis"
	giftService "telewall/internal/features/gift/service"
	paymentModels "telewall/internal/features/payment/models"
	paymentRepo "telewall/internal/features/payment/repository/redis"
	paymentService "telewall/internal/features/payment/service"
	postRepo "telewall/internal/features/post/repository/redis"
	postService "telewall/internal/features/post/service"
	storeModels "telewall/internal/features/store/models"
	storeRepo "telewall/internal/features/store/repository/redis"
	storeService "telewall/internal/features/store/service"
	userModels "telewall/internal/features/user/models"
	userRepo "telewall/internal/features/user/repository/redis"
	userService "telewall/internal/features/user/service"
	"telewall/internal/platform/redis"
	"telewall/internal/platform/telegram"
)

const testToken = "123456:test-token"

type testEnv struct {
	router   *gin.Engine
	payments paymentService.PaymentService
	links    *atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	links := &atomic.Int32{}
	botAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/createInvoiceLink") {
			http.NotFound(w, r)
			return
		}
		links.Add(1)
		_, _ = w.Write([]byte(`{"ok":true,"result":"https://t.me/$test"}`))
	}))
	t.Cleanup(botAPI.Close)

	mr := miniredis.RunT(t)
	client := &redis.Client{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.Server.Origin = "*"
	cfg.Telegram.BotToken = testToken
	cfg.Telegram.InitDataTTL = time.Hour
	cfg.Payments.InvoiceTTL = time.Hour
	cfg.Payments.InvoicesPerMin = 10

	logger := zerolog.Nop()
	users := userService.NewUserService(userRepo.NewUserRepository(client.Client), testToken, time.Hour, logger)
	store := storeService.NewStoreService(storeRepo.NewStoreRepository(client.Client), nil, logger)
	_, err := store.Seed(context.Background(), storeService.DefaultCatalog())
	require.NoError(t, err)

	payments := paymentService.NewPaymentService(
		paymentRepo.NewPaymentRepository(client.Client),
		users,
		store,
		telegram.NewClient(botAPI.URL, testToken, logger),
		cfg.Payments.InvoiceTTL,
		logger,
	)

	router := setupRouter(cfg, services{
		users:    users,
		posts:    postService.NewPostService(postRepo.NewPostRepository(client.Client), users, logger),
		gifts:    giftService.NewGiftService(giftRepo.NewGiftRepository(client.Client), users, logger),
		store:    store,
		payments: payments,
	}, client, logger)

	return &testEnv{router: router, payments: payments, links: links}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
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
	e.router.ServeHTTP(w, req)
	return w
}

func signedInitData(t *testing.T, id int64) string {
	t.Helper()
	raw, err := telegram.SignInitData(testToken, telegram.WebAppUser{ID: id, FirstName: "Daniil", Username: "marnitic"}, "AAH", time.Now())
	require.NoError(t, err)
	return raw
}

func TestPurchaseFlow(t *testing.T) {
	env := newTestEnv(t)
	raw := signedInitData(t, 42)

	w := env.do(t, http.MethodPost, "/api/auth/telegram_login", userModels.LoginRequest{InitDataStr: raw}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var profile userModels.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "42", profile.TelegramID)

	w = env.do(t, http.MethodGet, "/api/store_items", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []storeModels.StoreItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 10)

	headers := map[string]string{
		"X-Telegram-Init-Data": raw,
		"X-Idempotency-Key":    "attempt-1",
	}
	request := paymentModels.CreateInvoiceRequest{StoreItemID: "brush2"}

	w = env.do(t, http.MethodPost, "/api/payments/create_invoice_link", request, headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var link paymentModels.InvoiceLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &link))
	assert.Equal(t, "https://t.me/$test", link.InvoiceURL)
	require.NotEmpty(t, link.Payload)

	w = env.do(t, http.MethodPost, "/api/payments/create_invoice_link", request, headers)
	require.Equal(t, http.StatusOK, w.Code)
	var retried paymentModels.InvoiceLinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &retried))
	assert.Equal(t, link, retried)
	assert.Equal(t, int32(1), env.links.Load(), "retry reuses the invoice")

	_, err := env.payments.Settle(context.Background(), paymentModels.SuccessfulPayment{
		Payload:     link.Payload,
		ChargeID:    "ch_1",
		TelegramID:  42,
		Currency:    telegram.StarsCurrency,
		TotalAmount: 200,
	})
	require.NoError(t, err)

	w = env.do(t, http.MethodGet, "/api/users/42/inventory", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inventory []paymentModels.InventoryEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inventory))
	require.Len(t, inventory, 1)
	assert.Equal(t, "brush2", inventory[0].ItemID)
}

func TestCreateInvoiceLink_RequiresInitData(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/payments/create_invoice_link", paymentModels.CreateInvoiceRequest{StoreItemID: "gift1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Zero(t, env.links.Load())
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/payments/create_invoice_link", nil)
	req.Header.Set("Origin", "https://web.telegram.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-Telegram-Init-Data, X-Idempotency-Key")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProbes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "telewall_http_requests_total")
}

type failingRedis struct{}

func (failingRedis) HealthCheck(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestReady_RedisDown(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Origin = "https://example.org"
	cfg.Telegram.BotToken = testToken
	cfg.Payments.InvoicesPerMin = 1

	router := setupRouter(cfg, services{}, failingRedis{}, zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis unavailable")
}
