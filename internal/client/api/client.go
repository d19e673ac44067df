// Package api is the Mini App's HTTP client for the TeleWall backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	paymentmodels "telewall/internal/features/payment/models"
	postmodels "telewall/internal/features/post/models"
	storemodels "telewall/internal/features/store/models"
	usermodels "telewall/internal/features/user/models"
)

const (
	InitDataHeader       = "X-Telegram-Init-Data"
	IdempotencyKeyHeader = "X-Idempotency-Key"

	defaultMaxRetries      = 3
	defaultInitialInterval = 200 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second
	maxResponseBody        = 1 << 20
)

// APIError is a non-2xx backend response. Detail carries the body's "detail" field.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Detail)
}

// Retryable reports whether the status is worth another attempt.
func (e *APIError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

type Client struct {
	baseURL         string
	httpClient      *http.Client
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries sets how many times a transient failure is retried; 0 disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

func WithRetryInterval(initial, maxInterval time.Duration) Option {
	return func(c *Client) {
		c.initialInterval = initial
		c.maxInterval = maxInterval
	}
}

// NewClient talks to baseURL, which already includes the /api prefix.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
		logger:          logger.With().Str("component", "api_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TelegramLogin exchanges init data for the caller's profile.
func (c *Client) TelegramLogin(ctx context.Context, initData string) (*usermodels.UserProfile, error) {
	var profile usermodels.UserProfile
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/telegram_login",
		body:   usermodels.LoginRequest{InitDataStr: initData},
		retry:  true,
	}, &profile)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateUser is the legacy bootstrap that trusts client-supplied identity.
//
// Deprecated: use TelegramLogin.
func (c *Client) CreateUser(ctx context.Context, req usermodels.CreateUserRequest) (*usermodels.UserProfile, error) {
	var profile usermodels.UserProfile
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users", body: req}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) SearchUsers(ctx context.Context, query string, limit int) ([]usermodels.UserProfile, error) {
	params := url.Values{}
	params.Set("q", query)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp usermodels.UsersResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users", query: params, retry: true}, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ListStoreItems is called on every store visit; the result is not cached.
func (c *Client) ListStoreItems(ctx context.Context, activeOnly bool) ([]storemodels.StoreItem, error) {
	params := url.Values{}
	params.Set("active_only", strconv.FormatBool(activeOnly))

	var items []storemodels.StoreItem
	if err := c.do(ctx, request{method: http.MethodGet, path: "/store_items", query: params, retry: true}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateInvoiceLink is retried on transient failures; idemKey makes the backend
// hand back the same invoice instead of issuing a second one.
func (c *Client) CreateInvoiceLink(ctx context.Context, initData, idemKey, itemID string) (*paymentmodels.InvoiceLinkResponse, error) {
	headers := http.Header{}
	headers.Set(InitDataHeader, initData)
	if idemKey != "" {
		headers.Set(IdempotencyKeyHeader, idemKey)
	}

	var resp paymentmodels.InvoiceLinkResponse
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/payments/create_invoice_link",
		headers: headers,
		body:    paymentmodels.CreateInvoiceRequest{StoreItemID: itemID},
		retry:   idemKey != "",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Inventory(ctx context.Context, userID string) ([]paymentmodels.InventoryEntry, error) {
	var entries []paymentmodels.InventoryEntry
	path := "/users/" + url.PathEscape(userID) + "/inventory"
	if err := c.do(ctx, request{method: http.MethodGet, path: path, retry: true}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreatePost(ctx context.Context, req postmodels.CreatePostRequest) (*postmodels.Post, error) {
	var post postmodels.Post
	if err := c.do(ctx, request{method: http.MethodPost, path: "/posts", body: req}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) ListPosts(ctx context.Context, limit, offset int) ([]postmodels.Post, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var posts []postmodels.Post
	if err := c.do(ctx, request{method: http.MethodGet, path: "/posts", query: params, retry: true}, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

type request struct {
	method  string
	path    string
	query   url.Values
	headers http.Header
	body    interface{}
	retry   bool
}

func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var payload []byte
	if req.body != nil {
		var err error
		if payload, err = json.Marshal(req.body); err != nil {
			return fmt.Errorf("marshal %s body: %w", req.path, err)
		}
	}

	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := c.send(ctx, req, endpoint, payload, out)
		if err == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	if !req.retry || c.maxRetries <= 0 {
		err := operation()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	policy.MaxInterval = c.maxInterval
	policy.MaxElapsedTime = 0

	return backoff.RetryNotify(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx),
		func(err error, wait time.Duration) {
			c.logger.Warn().Err(err).
				Str("method", req.method).
				Str("path", req.path).
				Int("attempt", attempt).
				Dur("retry_in", wait).
				Msg("Request failed, retrying")
		})
}

func (c *Client) send(ctx context.Context, req request, endpoint string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.headers {
		httpReq.Header[k] = v
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read %s response: %w", req.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode %s response: %w", req.path, err))
	}
	return nil
}

// parseAPIError reads {"detail": ..., "code": ...}. A non-string detail is kept as raw JSON.
func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body struct {
		Detail json.RawMessage `json:"detail"`
		Code   string          `json:"code"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Code = body.Code
	if len(body.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(body.Detail, &detail); err == nil {
			apiErr.Detail = detail
		} else {
			apiErr.Detail = string(body.Detail)
		}
	}
	return apiErr
}
