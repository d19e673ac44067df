package models

import "time"

const StatusActive = "active"

// Gift is sent from one user to another and shown on the receiver's profile.
// @Description Gift
type Gift struct {
	ID         string    `json:"id"`
	Type       string    `json:"type" example:"gift1"`
	Message    string    `json:"message,omitempty" example:"С днём рождения!"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Status     string    `json:"status" example:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateGiftRequest struct {
	Type       string `json:"type" binding:"required" example:"gift1"`
	Message    string `json:"message,omitempty"`
	SenderID   string `json:"sender_id" binding:"required"`
	ReceiverID string `json:"receiver_id" binding:"required"`
}
