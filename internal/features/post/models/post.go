package models

import "time"

// Post is a wall entry. Content is plain text, an image URL or a drawing data URL depending on Type.
// @Description Wall post
type Post struct {
	ID        string    `json:"id" example:"2b1f7c7e-8e8a-4a57-9c55-1f2e0d7b9a10"`
	UserID    string    `json:"user_id" example:"5f0c6f5e-5a36-4c43-9d0d-0f4a8d1c1f2b"`
	Type      string    `json:"type" example:"text" enums:"text,image,drawing"`
	Content   string    `json:"content" example:"Hello, wall!"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Type    string `json:"type" binding:"required" example:"text"`
	Content string `json:"content" binding:"required" example:"Hello, wall!"`
	UserID  string `json:"user_id" binding:"required"`
}
