package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 20, cfg.Redis.PoolSize)
	assert.Equal(t, 24*time.Hour, cfg.Telegram.InitDataTTL)
	assert.Equal(t, 24*time.Hour, cfg.Payments.InvoiceTTL)
	assert.Equal(t, 10, cfg.Payments.InvoicesPerMin)
	assert.Equal(t, "bot:events", cfg.Payments.Stream)
}

func TestLoad_MissingBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveInvoiceRate(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("INVOICE_RATE_PER_MIN", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadClient_Overrides(t *testing.T) {
	t.Setenv("TELEWALL_API_URL", "http://backend:9000/api")
	t.Setenv("TELEWALL_MAX_RETRIES", "5")
	t.Setenv("TELEWALL_HEADLESS", "false")
	t.Setenv("TELEWALL_TELEGRAM_ID", "42")

	cfg, err := LoadClient()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000/api", cfg.APIURL)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.False(t, cfg.Headless)
	assert.Equal(t, int64(42), cfg.TelegramID)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
}

func TestLoadClient_RejectsNegativeRetries(t *testing.T) {
	t.Setenv("TELEWALL_MAX_RETRIES", "-1")

	_, err := LoadClient()
	assert.Error(t, err)
}
