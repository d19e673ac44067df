package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telewall/internal/common/metrics"
	"telewall/internal/features/payment/models"
	"telewall/internal/features/payment/repository"
	storemodels "telewall/internal/features/store/models"
	storeservice "telewall/internal/features/store/service"
	usermodels "telewall/internal/features/user/models"
	userservice "telewall/internal/features/user/service"
	"telewall/internal/platform/telegram"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrItemNotFound = errors.New("store item not found")
	ErrItemInactive = errors.New("store item is not available")
	// ErrIdempotencyConflict: the key was already used for a different item.
	ErrIdempotencyConflict = errors.New("idempotency key reused for a different item")
	// ErrInvoiceInProgress: a request with the same key is still creating its invoice.
	ErrInvoiceInProgress = errors.New("invoice creation in progress")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrPaymentMismatch   = errors.New("payment does not match invoice")
	ErrAlreadySettled    = errors.New("invoice already settled")
	ErrInvoiceProvider   = errors.New("invoice provider error")
)

var (
	invoicesCreated = metrics.NewCounterVec("payments", "invoices_total",
		"Invoice link requests by result.", "result")
	paymentsSettled = metrics.NewCounterVec("payments", "settlements_total",
		"Payment settlements by result.", "result")
	starsReceived = metrics.NewCounterVec("payments", "stars_total",
		"Telegram Stars received for settled invoices.", "item_type")
)

type UserLookup interface {
	GetUser(ctx context.Context, idOrTelegramID string) (*usermodels.UserProfile, error)
}

type Catalog interface {
	GetPurchasable(ctx context.Context, id string) (*storemodels.StoreItem, error)
}

type InvoiceCreator interface {
	CreateInvoiceLink(ctx context.Context, invoice telegram.InvoiceLink) (string, error)
}

type PaymentService interface {
	// CreateInvoiceLink issues a Stars invoice for itemID on behalf of a Telegram user.
	// Requests repeating idemKey return the invoice created by the first one.
	CreateInvoiceLink(ctx context.Context, telegramID int64, itemID, idemKey string) (*models.InvoiceLinkResponse, error)
	// Settle applies a successful_payment event. It is the only path that grants items.
	Settle(ctx context.Context, payment models.SuccessfulPayment) (*models.Invoice, error)
	Inventory(ctx context.Context, idOrTelegramID string) ([]models.InventoryEntry, error)
}

type paymentService struct {
	repo       repository.PaymentRepository
	users      UserLookup
	catalog    Catalog
	invoices   InvoiceCreator
	invoiceTTL time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

func NewPaymentService(
	repo repository.PaymentRepository,
	users UserLookup,
	catalog Catalog,
	invoices InvoiceCreator,
	invoiceTTL time.Duration,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		repo:       repo,
		users:      users,
		catalog:    catalog,
		invoices:   invoices,
		invoiceTTL: invoiceTTL,
		logger:     logger.With().Str("component", "payment_service").Logger(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *paymentService) CreateInvoiceLink(ctx context.Context, telegramID int64, itemID, idemKey string) (*models.InvoiceLinkResponse, error) {
	resp, err := s.createInvoiceLink(ctx, telegramID, itemID, idemKey)
	switch {
	case err == nil:
		invoicesCreated.WithLabelValues("created").Inc()
	case errors.Is(err, ErrInvoiceProvider):
		invoicesCreated.WithLabelValues("provider_error").Inc()
	default:
		invoicesCreated.WithLabelValues("rejected").Inc()
	}
	return resp, err
}

func (s *paymentService) createInvoiceLink(ctx context.Context, telegramID int64, itemID, idemKey string) (*models.InvoiceLinkResponse, error) {
	user, err := s.users.GetUser(ctx, strconv.FormatInt(telegramID, 10))
	if errors.Is(err, userservice.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	item, err := s.catalog.GetPurchasable(ctx, itemID)
	switch {
	case errors.Is(err, storeservice.ErrItemNotFound):
		return nil, ErrItemNotFound
	case errors.Is(err, storeservice.ErrItemInactive):
		return nil, ErrItemInactive
	case err != nil:
		return nil, fmt.Errorf("get store item: %w", err)
	}

	payload := uuid.New().String()
	if idemKey != "" {
		bound, claimed, err := s.repo.ClaimIdempotencyKey(ctx, telegramID, idemKey, payload, s.invoiceTTL)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return s.replay(ctx, bound, itemID)
		}
	}

	link, err := s.invoices.CreateInvoiceLink(ctx, telegram.InvoiceLink{
		Title:       item.Name,
		Description: item.Description,
		Payload:     payload,
		Currency:    telegram.StarsCurrency,
		Prices:      []telegram.LabeledPrice{{Label: item.Name, Amount: item.PriceStars}},
		PhotoURL:    item.ImageURL,
	})
	if err != nil {
		s.release(ctx, telegramID, idemKey)
		return nil, fmt.Errorf("%w: %v", ErrInvoiceProvider, err)
	}

	invoice := &models.Invoice{
		Payload:        payload,
		UserID:         user.ID,
		TelegramID:     telegramID,
		ItemID:         item.ID,
		PriceStars:     item.PriceStars,
		InvoiceURL:     link,
		IdempotencyKey: idemKey,
		Status:         models.InvoiceStatusPending,
		CreatedAt:      s.now(),
	}
	if err := s.repo.SaveInvoice(ctx, invoice); err != nil {
		s.release(ctx, telegramID, idemKey)
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("item_id", item.ID).
		Str("payload", payload).
		Int64("price_stars", item.PriceStars).
		Msg("Invoice created")

	return &models.InvoiceLinkResponse{InvoiceURL: link, Payload: payload}, nil
}

func (s *paymentService) replay(ctx context.Context, payload, itemID string) (*models.InvoiceLinkResponse, error) {
	invoice, err := s.repo.GetInvoice(ctx, payload)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvoiceInProgress
	}
	if err != nil {
		return nil, err
	}
	if invoice.ItemID != itemID {
		return nil, ErrIdempotencyConflict
	}

	s.logger.Debug().Str("payload", payload).Msg("Invoice replayed for idempotency key")
	return &models.InvoiceLinkResponse{InvoiceURL: invoice.InvoiceURL, Payload: invoice.Payload}, nil
}

func (s *paymentService) release(ctx context.Context, telegramID int64, idemKey string) {
	if idemKey == "" {
		return
	}
	if err := s.repo.ReleaseIdempotencyKey(ctx, telegramID, idemKey); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", idemKey).Msg("Failed to release idempotency key")
	}
}

func (s *paymentService) Settle(ctx context.Context, payment models.SuccessfulPayment) (*models.Invoice, error) {
	invoice, err := s.settle(ctx, payment)
	switch {
	case err == nil:
		paymentsSettled.WithLabelValues("settled").Inc()
	case errors.Is(err, ErrAlreadySettled):
		paymentsSettled.WithLabelValues("duplicate").Inc()
	case errors.Is(err, ErrInvoiceNotFound):
		paymentsSettled.WithLabelValues("unknown_invoice").Inc()
	case errors.Is(err, ErrPaymentMismatch):
		paymentsSettled.WithLabelValues("mismatch").Inc()
	default:
		paymentsSettled.WithLabelValues("error").Inc()
	}
	return invoice, err
}

func (s *paymentService) settle(ctx context.Context, payment models.SuccessfulPayment) (*models.Invoice, error) {
	invoice, err := s.repo.GetInvoice(ctx, payment.Payload)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}

	if payment.Currency != telegram.StarsCurrency || payment.TotalAmount != invoice.PriceStars {
		return nil, fmt.Errorf("%w: got %d %s, want %d %s", ErrPaymentMismatch,
			payment.TotalAmount, payment.Currency, invoice.PriceStars, telegram.StarsCurrency)
	}
	if payment.TelegramID != 0 && payment.TelegramID != invoice.TelegramID {
		return nil, fmt.Errorf("%w: paid by %d, issued to %d", ErrPaymentMismatch, payment.TelegramID, invoice.TelegramID)
	}

	settled, err := s.repo.MarkPaid(ctx, payment.Payload, payment.ChargeID, s.now())
	switch {
	case errors.Is(err, repository.ErrAlreadyPaid):
		return nil, ErrAlreadySettled
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrInvoiceNotFound
	case err != nil:
		return nil, err
	}

	starsReceived.WithLabelValues(itemType(settled.ItemID)).Add(float64(settled.PriceStars))
	s.logger.Info().
		Str("user_id", settled.UserID).
		Str("item_id", settled.ItemID).
		Str("payload", settled.Payload).
		Str("charge_id", payment.ChargeID).
		Msg("Payment settled")
	return settled, nil
}

func (s *paymentService) Inventory(ctx context.Context, idOrTelegramID string) ([]models.InventoryEntry, error) {
	user, err := s.users.GetUser(ctx, idOrTelegramID)
	if errors.Is(err, userservice.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	invoices, err := s.repo.ListInventory(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.InventoryEntry, 0, len(invoices))
	for _, inv := range invoices {
		entry := models.InventoryEntry{
			ItemID:     inv.ItemID,
			Payload:    inv.Payload,
			PriceStars: inv.PriceStars,
		}
		if inv.PaidAt != nil {
			entry.AcquiredAt = *inv.PaidAt
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// itemType keeps metric cardinality bounded to the catalog's item kinds.
func itemType(itemID string) string {
	for _, t := range []string{storemodels.ItemTypeGift, storemodels.ItemTypeBrush, storemodels.ItemTypeTheme} {
		if strings.HasPrefix(itemID, t) {
			return t
		}
	}
	return "other"
}
