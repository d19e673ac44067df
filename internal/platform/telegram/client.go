package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StarsCurrency is the Telegram Stars currency code; invoices in XTR need no provider token.
const StarsCurrency = "XTR"

// ErrAPI is returned when the Bot API answers ok=false.
var ErrAPI = errors.New("telegram API error")

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     zerolog.Logger
}

// Response is the Bot API envelope.
type Response struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

// LabeledPrice is one invoice line; Amount is in Stars for XTR.
type LabeledPrice struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// InvoiceLink describes an invoice for createInvoiceLink.
type InvoiceLink struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Payload     string         `json:"payload"`
	Currency    string         `json:"currency"`
	Prices      []LabeledPrice `json:"prices"`
	PhotoURL    string         `json:"photo_url,omitempty"`
}

func NewClient(baseURL, token string, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger.With().Str("component", "telegram").Logger(),
	}
}

// CreateInvoiceLink returns an https://t.me/$... link the Mini App opens with openInvoice.
func (c *Client) CreateInvoiceLink(ctx context.Context, invoice InvoiceLink) (string, error) {
	if invoice.Currency == "" {
		invoice.Currency = StarsCurrency
	}

	var link string
	if err := c.call(ctx, "createInvoiceLink", invoice, &link); err != nil {
		c.logger.Error().Err(err).Str("payload", invoice.Payload).Msg("Failed to create invoice link")
		return "", err
	}

	c.logger.Debug().Str("payload", invoice.Payload).Msg("Invoice link created")
	return link, nil
}

func (c *Client) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal %s params: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}
	if !envelope.Ok {
		return fmt.Errorf("%w: %s: %d %s", ErrAPI, method, envelope.ErrorCode, envelope.Description)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("failed to parse %s result: %w", method, err)
	}
	return nil
}
