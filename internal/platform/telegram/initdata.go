package telegram

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// WebAppUser is the "user" field of Mini App init-data.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// SignInitData produces an init-data query string signed with the bot token, the way
// Telegram hands it to a Mini App. Used by the headless client and by tests.
func SignInitData(token string, user WebAppUser, queryID string, authDate time.Time) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty bot token")
	}
	if user.ID == 0 {
		return "", fmt.Errorf("user id is required")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("marshal user: %w", err)
	}

	payload := map[string]string{
		"user": string(userJSON),
	}
	if queryID != "" {
		payload["query_id"] = queryID
	}

	hash := initdata.Sign(payload, token, authDate)

	values := url.Values{}
	for k, v := range payload {
		values.Set(k, v)
	}
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("hash", hash)
	return values.Encode(), nil
}
