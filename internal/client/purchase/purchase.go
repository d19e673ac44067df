// Package purchase drives a Telegram Stars purchase from invoice request to payment sheet outcome.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telewall/internal/client/api"
	"telewall/internal/client/bridge"
	"telewall/internal/client/session"
	paymentmodels "telewall/internal/features/payment/models"
)

type Status string

const (
	StatusIdle            Status = "idle"
	StatusRequesting      Status = "requesting"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusCancelled       Status = "cancelled"
	StatusFailed          Status = "failed"
	StatusPending         Status = "pending"
)

// Busy statuses keep the buy control disabled.
func (s Status) Busy() bool {
	return s == StatusRequesting || s == StatusAwaitingPayment
}

var (
	ErrBridgeUnavailable  = errors.New("purchases are only available inside Telegram")
	ErrNoPlatformIdentity = errors.New("purchases require a Telegram login")
	ErrPurchaseInProgress = errors.New("another purchase is in progress")
)

const genericRequestFailure = "Не удалось создать счёт"

var outcomeMessages = map[Status]string{
	StatusPaid:      "Оплата прошла успешно!",
	StatusCancelled: "Оплата отменена",
	StatusFailed:    "Оплата не удалась, попробуйте ещё раз",
	StatusPending:   "Платёж обрабатывается",
}

// Message is the fixed user-visible text for a sheet outcome.
func Message(s Status) string {
	return outcomeMessages[s]
}

// InvoiceRequestError is a rejected purchase: a failed precondition or a backend refusal.
type InvoiceRequestError struct {
	ItemID string
	// Detail is the backend's explanation, empty when it gave none.
	Detail string
	Err    error
}

func (e *InvoiceRequestError) Error() string {
	return fmt.Sprintf("invoice request for %s failed: %v", e.ItemID, e.Err)
}

func (e *InvoiceRequestError) Unwrap() error {
	return e.Err
}

// Message is the user-visible text.
func (e *InvoiceRequestError) Message() string {
	switch {
	case e.Detail != "":
		return genericRequestFailure + ": " + e.Detail
	case errors.Is(e.Err, ErrBridgeUnavailable), errors.Is(e.Err, ErrNoPlatformIdentity):
		return e.Err.Error()
	default:
		return genericRequestFailure
	}
}

// PaymentOutcomeError means the sheet reported a failed payment. The user may try again.
type PaymentOutcomeError struct {
	AttemptID string
	ItemID    string
}

func (e *PaymentOutcomeError) Error() string {
	return fmt.Sprintf("payment for %s failed (attempt %s)", e.ItemID, e.AttemptID)
}

// InvoiceRequester is the slice of the API client the controller needs.
type InvoiceRequester interface {
	CreateInvoiceLink(ctx context.Context, initData, idemKey, itemID string) (*paymentmodels.InvoiceLinkResponse, error)
}

type Option func(*Controller)

// WithOnPaid registers the inventory refresh hook. It runs only for paid attempts.
func WithOnPaid(fn func(*Attempt)) Option {
	return func(c *Controller) { c.onPaid = fn }
}

// Controller owns the purchase status shown to the user. At most one attempt is busy at a time.
type Controller struct {
	bridge   bridge.Bridge
	invoices InvoiceRequester
	onPaid   func(*Attempt)
	logger   zerolog.Logger

	mu      sync.Mutex
	current *Attempt
	status  Status
	message string
}

// NewController takes a nil bridge when the app runs outside Telegram.
func NewController(b bridge.Bridge, invoices InvoiceRequester, logger zerolog.Logger, opts ...Option) *Controller {
	c := &Controller{
		bridge:   b,
		invoices: invoices,
		logger:   logger.With().Str("component", "purchase").Logger(),
		status:   StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Purchase requests an invoice for itemID and opens the payment sheet.
// The returned attempt resolves when the sheet reports its outcome.
func (c *Controller) Purchase(ctx context.Context, sess *session.Session, itemID string) (*Attempt, error) {
	if c.bridge == nil {
		return nil, c.reject(itemID, ErrBridgeUnavailable)
	}
	if !sess.HasPlatformIdentity() {
		return nil, c.reject(itemID, ErrNoPlatformIdentity)
	}

	attempt := newAttempt(uuid.New().String(), itemID)

	c.mu.Lock()
	if c.status.Busy() {
		c.mu.Unlock()
		return nil, ErrPurchaseInProgress
	}
	c.current = attempt
	c.setLocked(StatusRequesting, "")
	c.mu.Unlock()

	log := c.logger.With().Str("attempt_id", attempt.ID).Str("item_id", itemID).Logger()
	log.Info().Str("purchase_status", string(StatusRequesting)).Msg("Requesting invoice")

	resp, err := c.invoices.CreateInvoiceLink(ctx, sess.InitData, attempt.ID, itemID)
	if err != nil {
		reqErr := &InvoiceRequestError{ItemID: itemID, Err: err}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			reqErr.Detail = apiErr.Detail
		}
		attempt.resolve(StatusFailed, reqErr)
		c.updateIfCurrent(attempt, StatusFailed, reqErr.Message())
		log.Warn().Err(err).Str("purchase_status", string(StatusFailed)).Msg("Invoice request failed")
		return attempt, reqErr
	}

	attempt.setInvoice(resp.InvoiceURL, resp.Payload)
	c.updateIfCurrent(attempt, StatusAwaitingPayment, "")

	log.Info().Str("purchase_status", string(StatusAwaitingPayment)).Str("payload", resp.Payload).Msg("Opening payment sheet")
	c.bridge.OpenInvoice(resp.InvoiceURL, func(status bridge.InvoiceStatus) {
		c.complete(attempt, status)
	})
	return attempt, nil
}

func (c *Controller) complete(attempt *Attempt, reported bridge.InvoiceStatus) {
	status := Status(reported)
	if _, ok := outcomeMessages[status]; !ok {
		status = StatusFailed
	}

	var err error
	if status == StatusFailed {
		err = &PaymentOutcomeError{AttemptID: attempt.ID, ItemID: attempt.ItemID}
	}
	if !attempt.resolve(status, err) {
		return
	}

	current := c.updateIfCurrent(attempt, status, Message(status))
	c.logger.Info().
		Str("attempt_id", attempt.ID).
		Str("purchase_status", string(status)).
		Bool("current", current).
		Msg("Payment sheet closed")

	if status == StatusPaid && c.onPaid != nil {
		c.onPaid(attempt)
	}
}

// Dismiss releases an attempt stuck waiting for the sheet, for example after
// the UI was closed. The sheet itself stays open; its late callback resolves
// only the old attempt.
func (c *Controller) Dismiss() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil || c.status != StatusAwaitingPayment {
		return false
	}
	c.logger.Info().Str("attempt_id", c.current.ID).Msg("Purchase dismissed")
	c.current = nil
	c.setLocked(StatusIdle, "")
	return true
}

// Status returns the UI status and its message.
func (c *Controller) Status() (Status, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.message
}

// Busy reports whether the buy control should be disabled.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.Busy()
}

func (c *Controller) reject(itemID string, cause error) error {
	reqErr := &InvoiceRequestError{ItemID: itemID, Err: cause}
	c.mu.Lock()
	if !c.status.Busy() {
		c.setLocked(StatusFailed, reqErr.Message())
	}
	c.mu.Unlock()
	c.logger.Warn().Err(cause).Str("item_id", itemID).Msg("Purchase rejected")
	return reqErr
}

func (c *Controller) updateIfCurrent(attempt *Attempt, status Status, message string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != attempt {
		return false
	}
	c.setLocked(status, message)
	return true
}

func (c *Controller) setLocked(status Status, message string) {
	c.status = status
	c.message = message
}
