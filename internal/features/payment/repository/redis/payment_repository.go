package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"telewall/internal/features/payment/models"
	"telewall/internal/features/payment/repository"
)

const (
	keyPrefixInvoice     = "payments:invoice:"
	keyPrefixIdempotency = "payments:idem:"
	keyPrefixInventory   = "inventory:"

	maxSettleRetries = 5
)

type paymentRepository struct {
	client *redis.Client
}

func NewPaymentRepository(client *redis.Client) repository.PaymentRepository {
	return &paymentRepository{client: client}
}

func invoiceKey(payload string) string { return keyPrefixInvoice + payload }
func inventoryKey(userID string) string { return keyPrefixInventory + userID }
func idempotencyKey(telegramID int64, key string) string {
	return keyPrefixIdempotency + strconv.FormatInt(telegramID, 10) + ":" + key
}

func (r *paymentRepository) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	data, err := json.Marshal(invoice)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice: %w", err)
	}
	if err := r.client.Set(ctx, invoiceKey(invoice.Payload), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetInvoice(ctx context.Context, payload string) (*models.Invoice, error) {
	data, err := r.client.Get(ctx, invoiceKey(payload)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	var invoice models.Invoice
	if err := json.Unmarshal(data, &invoice); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice: %w", err)
	}
	return &invoice, nil
}

func (r *paymentRepository) ClaimIdempotencyKey(ctx context.Context, telegramID int64, key, payload string, ttl time.Duration) (string, bool, error) {
	k := idempotencyKey(telegramID, key)
	claimed, err := r.client.SetNX(ctx, k, payload, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to claim idempotency key: %w", err)
	}
	if claimed {
		return payload, true, nil
	}

	bound, err := r.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; treat as a fresh claim.
		return r.ClaimIdempotencyKey(ctx, telegramID, key, payload, ttl)
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	return bound, false, nil
}

func (r *paymentRepository) ReleaseIdempotencyKey(ctx context.Context, telegramID int64, key string) error {
	return r.client.Del(ctx, idempotencyKey(telegramID, key)).Err()
}

func (r *paymentRepository) MarkPaid(ctx context.Context, payload, chargeID string, paidAt time.Time) (*models.Invoice, error) {
	key := invoiceKey(payload)
	var settled models.Invoice

	settle := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return repository.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := json.Unmarshal(data, &settled); err != nil {
			return fmt.Errorf("failed to unmarshal invoice: %w", err)
		}
		if settled.Status == models.InvoiceStatusPaid {
			return repository.ErrAlreadyPaid
		}

		settled.Status = models.InvoiceStatusPaid
		settled.ChargeID = chargeID
		settled.PaidAt = &paidAt
		updated, err := json.Marshal(&settled)
		if err != nil {
			return fmt.Errorf("failed to marshal invoice: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			// Paid invoices are the inventory records.
			pipe.Set(ctx, key, updated, 0)
			pipe.ZAdd(ctx, inventoryKey(settled.UserID), redis.Z{Score: float64(paidAt.UnixMilli()), Member: payload})
			return nil
		})
		return err
	}

	for i := 0; i < maxSettleRetries; i++ {
		err := r.client.Watch(ctx, settle, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &settled, nil
	}
	return nil, fmt.Errorf("failed to settle invoice %s: too much contention", payload)
}

func (r *paymentRepository) ListInventory(ctx context.Context, userID string) ([]*models.Invoice, error) {
	payloads, err := r.client.ZRevRange(ctx, inventoryKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}
	invoices := make([]*models.Invoice, 0, len(payloads))
	if len(payloads) == 0 {
		return invoices, nil
	}

	keys := make([]string, len(payloads))
	for i, p := range payloads {
		keys[i] = invoiceKey(p)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory invoices: %w", err)
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var invoice models.Invoice
		if err := json.Unmarshal([]byte(s), &invoice); err != nil {
			continue
		}
		invoices = append(invoices, &invoice)
	}
	return invoices, nil
}
