package models

import "time"

const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"

	EventSuccessfulPayment = "successful_payment"
)

// Invoice tracks one createInvoiceLink call; Payload is the key Telegram echoes back on payment.
type Invoice struct {
	Payload        string     `json:"payload"`
	UserID         string     `json:"user_id"`
	TelegramID     int64      `json:"telegram_id"`
	ItemID         string     `json:"item_id"`
	PriceStars     int64      `json:"price_stars"`
	InvoiceURL     string     `json:"invoice_url"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
	Status         string     `json:"status"`
	ChargeID       string     `json:"charge_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

type CreateInvoiceRequest struct {
	StoreItemID string `json:"store_item_id" binding:"required" example:"gift1"`
}

// @Description Invoice link for WebApp.openInvoice
type InvoiceLinkResponse struct {
	InvoiceURL string `json:"invoice_url" example:"https://t.me/$AbCdEf"`
	Payload    string `json:"payload" example:"c2a4f1a6-3e0b-4d8e-bf0e-8f7d0d7b1c22"`
}

// @Description Item owned by a user
type InventoryEntry struct {
	ItemID     string    `json:"item_id" example:"brush1"`
	Payload    string    `json:"payload"`
	PriceStars int64     `json:"price_stars" example:"150"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// SuccessfulPayment is the bot's successful_payment update as published on the payment stream.
type SuccessfulPayment struct {
	Payload     string
	ChargeID    string
	TelegramID  int64
	Currency    string
	TotalAmount int64
}
