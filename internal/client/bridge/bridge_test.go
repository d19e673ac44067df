package bridge

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"telewall/internal/platform/telegram"
)

func TestParseInvoiceStatus(t *testing.T) {
	for _, s := range []string{"paid", "cancelled", "failed", "pending"} {
		status, err := ParseInvoiceStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(status))
	}

	_, err := ParseInvoiceStatus("refunded")
	assert.Error(t, err)
}

func TestHeadless_OpenInvoice(t *testing.T) {
	h := NewHeadless("init", InvoicePaid, 0, zerolog.Nop())
	h.Ready()
	h.Expand()
	assert.True(t, h.IsReady())
	assert.Equal(t, "init", h.InitData())

	got := make(chan InvoiceStatus, 1)
	h.OpenInvoice("https://t.me/$abc", func(s InvoiceStatus) { got <- s })

	select {
	case s := <-got:
		assert.Equal(t, InvoicePaid, s)
	case <-time.After(time.Second):
		t.Fatal("payment sheet never closed")
	}
	assert.Equal(t, []string{"https://t.me/$abc"}, h.Opened())
}

func TestNewSignedHeadless(t *testing.T) {
	const token = "123456:test-token"
	h, err := NewSignedHeadless(token, telegram.WebAppUser{ID: 42, FirstName: "Daniil"}, InvoiceCancelled, 0, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, initdata.Validate(h.InitData(), token, time.Hour))

	_, err = NewSignedHeadless(token, telegram.WebAppUser{}, InvoicePaid, 0, zerolog.Nop())
	assert.Error(t, err)
}
