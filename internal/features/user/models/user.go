package models

import "time"

// Privacy controls who may see and post on a user's wall.
// @Description Wall privacy settings
type Privacy struct {
	WallVisibility string `json:"wall_visibility" example:"all" enums:"all,friends,nobody"`
	CanPost        string `json:"can_post" example:"all" enums:"all,friends,nobody"`
}

// DefaultPrivacy is applied to every new profile.
func DefaultPrivacy() *Privacy {
	return &Privacy{WallVisibility: "all", CanPost: "all"}
}

// UserProfile is a TeleWall user. ID is issued by the backend and used by every
// user-scoped request; TelegramID is the platform identity it was created from.
// @Description TeleWall user profile
type UserProfile struct {
	ID           string    `json:"id" example:"5f0c6f5e-5a36-4c43-9d0d-0f4a8d1c1f2b"`
	TelegramID   string    `json:"telegram_id" example:"123456789"`
	Name         string    `json:"name" example:"Daniil Shelesteev"`
	Username     string    `json:"username,omitempty" example:"marnitic"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Description  string    `json:"description,omitempty"`
	Privacy      *Privacy  `json:"privacy,omitempty"`
	StarsBalance int64     `json:"stars_balance" example:"100"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest carries the raw Mini App init-data string.
type LoginRequest struct {
	InitDataStr string `json:"init_data_str" binding:"required"`
}

// CreateUserRequest is the body of the legacy POST /users bootstrap.
type CreateUserRequest struct {
	TelegramID  string `json:"telegram_id" binding:"required" example:"123456789"`
	Username    string `json:"username,omitempty" example:"marnitic"`
	Name        string `json:"name" binding:"required" example:"Daniil Shelesteev"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateUserRequest changes only the fields that are set.
type UpdateUserRequest struct {
	Name        *string  `json:"name,omitempty"`
	Username    *string  `json:"username,omitempty"`
	PhotoURL    *string  `json:"photo_url,omitempty"`
	Description *string  `json:"description,omitempty"`
	Privacy     *Privacy `json:"privacy,omitempty"`
}
