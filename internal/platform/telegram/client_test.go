package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

func TestCreateInvoiceLink(t *testing.T) {
	var got InvoiceLink
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/createInvoiceLink", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":     true,
			"result": "https://t.me/$abc",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "123:abc", zerolog.Nop())
	link, err := client.CreateInvoiceLink(context.Background(), InvoiceLink{
		Title:   "Rose bouquet",
		Payload: "p1",
		Prices:  []LabeledPrice{{Label: "Rose bouquet", Amount: 50}},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://t.me/$abc", link)
	assert.Equal(t, StarsCurrency, got.Currency)
	assert.Equal(t, int64(50), got.Prices[0].Amount)
}

func TestCreateInvoiceLink_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":          false,
			"error_code":  400,
			"description": "Bad Request: CURRENCY_TOTAL_AMOUNT_INVALID",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "123:abc", zerolog.Nop())
	_, err := client.CreateInvoiceLink(context.Background(), InvoiceLink{Payload: "p1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "CURRENCY_TOTAL_AMOUNT_INVALID")
}

func TestSignInitData_Validates(t *testing.T) {
	raw, err := SignInitData("123:abc", WebAppUser{ID: 777, FirstName: "Daniil", Username: "marnitic"}, "q1", time.Now())
	require.NoError(t, err)

	require.NoError(t, initdata.Validate(raw, "123:abc", time.Hour))
	assert.Error(t, initdata.Validate(raw, "999:other", time.Hour))

	parsed, err := initdata.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(777), parsed.User.ID)
	assert.Equal(t, "marnitic", parsed.User.Username)
}

func TestSignInitData_RequiresTokenAndUser(t *testing.T) {
	_, err := SignInitData("", WebAppUser{ID: 1}, "", time.Now())
	assert.Error(t, err)

	_, err = SignInitData("123:abc", WebAppUser{}, "", time.Now())
	assert.Error(t, err)
}
