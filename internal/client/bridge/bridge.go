// Package bridge is the Mini App's view of the Telegram WebApp host.
package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telewall/internal/platform/telegram"
)

// InvoiceStatus is what the native payment sheet reports when it closes.
type InvoiceStatus string

const (
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
	InvoiceFailed    InvoiceStatus = "failed"
	InvoicePending   InvoiceStatus = "pending"
)

// ParseInvoiceStatus accepts the four statuses the host reports.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch status := InvoiceStatus(s); status {
	case InvoicePaid, InvoiceCancelled, InvoiceFailed, InvoicePending:
		return status, nil
	}
	return "", fmt.Errorf("unknown invoice status %q", s)
}

// Bridge is the host surface the app consumes. A nil Bridge means the app runs outside Telegram.
type Bridge interface {
	Ready()
	Expand()
	// InitData is the raw signed string, passed on unmodified.
	InitData() string
	// OpenInvoice shows the payment sheet; callback runs once when it closes.
	OpenInvoice(url string, callback func(InvoiceStatus))
}

// Headless stands in for the Telegram client: it serves fixed init data and
// closes every payment sheet with a preset outcome after a delay.
type Headless struct {
	initData string
	outcome  InvoiceStatus
	delay    time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	ready  bool
	opened []string
}

func NewHeadless(initData string, outcome InvoiceStatus, delay time.Duration, logger zerolog.Logger) *Headless {
	return &Headless{
		initData: initData,
		outcome:  outcome,
		delay:    delay,
		logger:   logger.With().Str("component", "headless_bridge").Logger(),
	}
}

// NewSignedHeadless signs init data for user with the bot token, as Telegram would.
func NewSignedHeadless(botToken string, user telegram.WebAppUser, outcome InvoiceStatus, delay time.Duration, logger zerolog.Logger) (*Headless, error) {
	raw, err := telegram.SignInitData(botToken, user, "", time.Now())
	if err != nil {
		return nil, fmt.Errorf("sign init data: %w", err)
	}
	return NewHeadless(raw, outcome, delay, logger), nil
}

func (h *Headless) Ready() {
	h.mu.Lock()
	h.ready = true
	h.mu.Unlock()
	h.logger.Debug().Msg("WebApp ready")
}

func (h *Headless) Expand() {
	h.logger.Debug().Msg("WebApp expanded")
}

func (h *Headless) InitData() string {
	return h.initData
}

func (h *Headless) OpenInvoice(url string, callback func(InvoiceStatus)) {
	h.mu.Lock()
	h.opened = append(h.opened, url)
	h.mu.Unlock()

	h.logger.Info().Str("invoice_url", url).Str("outcome", string(h.outcome)).Msg("Payment sheet opened")
	time.AfterFunc(h.delay, func() { callback(h.outcome) })
}

// Opened lists the invoice URLs shown so far.
func (h *Headless) Opened() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.opened...)
}

func (h *Headless) IsReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}
