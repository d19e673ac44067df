package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telewall/internal/features/payment/models"
	"telewall/internal/features/payment/repository"
)

func newTestRepository(t *testing.T) (repository.PaymentRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPaymentRepository(client), mr
}

func pendingInvoice(payload, userID, itemID string) *models.Invoice {
	return &models.Invoice{
		Payload:    payload,
		UserID:     userID,
		TelegramID: 42,
		ItemID:     itemID,
		PriceStars: 50,
		InvoiceURL: "https://t.me/$" + payload,
		Status:     models.InvoiceStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestPaymentRepository_LatePaymentOutlivesIdempotencyWindow(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()

	_, claimed, err := repo.ClaimIdempotencyKey(ctx, 42, "attempt-1", "p1", time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)
	require.NoError(t, repo.SaveInvoice(ctx, pendingInvoice("p1", "u1", "gift1")))

	mr.FastForward(48 * time.Hour)

	_, claimed, err = repo.ClaimIdempotencyKey(ctx, 42, "attempt-1", "p2", time.Minute)
	require.NoError(t, err)
	assert.True(t, claimed, "the idempotency window is over")

	got, err := repo.GetInvoice(ctx, "p1")
	require.NoError(t, err, "the invoice link is still payable")
	assert.Equal(t, "gift1", got.ItemID)

	paid, err := repo.MarkPaid(ctx, "p1", "ch_1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
}

func TestPaymentRepository_ClaimIdempotencyKey(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	bound, claimed, err := repo.ClaimIdempotencyKey(ctx, 42, "attempt-1", "p1", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.Equal(t, "p1", bound)

	bound, claimed, err = repo.ClaimIdempotencyKey(ctx, 42, "attempt-1", "p2", time.Hour)
	require.NoError(t, err)
	assert.False(t, claimed)
	assert.Equal(t, "p1", bound)

	_, claimed, err = repo.ClaimIdempotencyKey(ctx, 43, "attempt-1", "p3", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed, "keys are scoped per telegram user")

	require.NoError(t, repo.ReleaseIdempotencyKey(ctx, 42, "attempt-1"))
	_, claimed, err = repo.ClaimIdempotencyKey(ctx, 42, "attempt-1", "p4", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestPaymentRepository_MarkPaid(t *testing.T) {
	repo, mr := newTestRepository(t)
	ctx := context.Background()
	paidAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveInvoice(ctx, pendingInvoice("p1", "u1", "gift1")))
	require.NoError(t, repo.SaveInvoice(ctx, pendingInvoice("p2", "u1", "brush1")))

	settled, err := repo.MarkPaid(ctx, "p1", "charge-1", paidAt)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, settled.Status)
	assert.Equal(t, "charge-1", settled.ChargeID)

	_, err = repo.MarkPaid(ctx, "p1", "charge-1", paidAt)
	assert.ErrorIs(t, err, repository.ErrAlreadyPaid)

	_, err = repo.MarkPaid(ctx, "missing", "charge-x", paidAt)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mr.FastForward(2 * time.Minute)

	inventory, err := repo.ListInventory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, inventory, 1, "paid invoices survive the pending TTL")
	assert.Equal(t, "gift1", inventory[0].ItemID)

	empty, err := repo.ListInventory(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
