package repository

import (
	"context"
	"errors"
	"time"

	"telewall/internal/features/payment/models"
)

var (
	ErrNotFound    = errors.New("invoice not found")
	ErrAlreadyPaid = errors.New("invoice already paid")
)

type PaymentRepository interface {
	// SaveInvoice stores a pending invoice. Bot API invoice links never expire,
	// so the record is kept until the payment arrives.
	SaveInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoice(ctx context.Context, payload string) (*models.Invoice, error)

	// ClaimIdempotencyKey binds key to payload unless it is already bound,
	// in which case the bound payload is returned with claimed=false.
	ClaimIdempotencyKey(ctx context.Context, telegramID int64, key, payload string, ttl time.Duration) (bound string, claimed bool, err error)
	ReleaseIdempotencyKey(ctx context.Context, telegramID int64, key string) error

	// MarkPaid settles a pending invoice and adds its item to the owner's inventory atomically.
	// It returns ErrAlreadyPaid for a duplicate settlement.
	MarkPaid(ctx context.Context, payload, chargeID string, paidAt time.Time) (*models.Invoice, error)
	ListInventory(ctx context.Context, userID string) ([]*models.Invoice, error)
}
