package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// Максимальные длины для различных полей
	MaxNameLength        = 128
	MaxUsernameLength    = 32
	MaxDescriptionLength = 1000
	MaxTextPostLength    = 4096
	MaxGiftMessageLength = 500
	// Data URL рисунка с холста 350x300
	MaxDrawingLength = 2 << 20

	MinUsernameLength = 5
)

const (
	PostTypeText    = "text"
	PostTypeImage   = "image"
	PostTypeDrawing = "drawing"

	VisibilityAll     = "all"
	VisibilityFriends = "friends"
	VisibilityNobody  = "nobody"
)

// Telegram username: буквы, цифры, подчеркивания, 5-32 символа
var telegramUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{5,32}$`)

// ValidateName проверяет отображаемое имя
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("name cannot exceed %d characters", MaxNameLength)
	}
	return nil
}

// ValidateUsername accepts an empty username; Telegram users may have none.
func ValidateUsername(username string) error {
	if username == "" {
		return nil
	}
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if !telegramUsernameRegex.MatchString(username) {
		return fmt.Errorf("username must contain only letters, numbers, and underscores, %d-%d characters", MinUsernameLength, MaxUsernameLength)
	}
	return nil
}

func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return fmt.Errorf("description cannot exceed %d characters", MaxDescriptionLength)
	}
	return nil
}

// ValidateVisibility проверяет настройку приватности
func ValidateVisibility(field, value string) error {
	switch value {
	case VisibilityAll, VisibilityFriends, VisibilityNobody:
		return nil
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s", field, VisibilityAll, VisibilityFriends, VisibilityNobody)
	}
}

// ValidatePost checks a post body against its type.
func ValidatePost(postType, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content cannot be empty")
	}

	switch postType {
	case PostTypeText:
		if utf8.RuneCountInString(content) > MaxTextPostLength {
			return fmt.Errorf("text cannot exceed %d characters", MaxTextPostLength)
		}
	case PostTypeImage:
		if !strings.HasPrefix(content, "https://") && !strings.HasPrefix(content, "http://") && !strings.HasPrefix(content, "data:image/") {
			return fmt.Errorf("image content must be a URL or an image data URL")
		}
	case PostTypeDrawing:
		if !strings.HasPrefix(content, "data:image/") {
			return fmt.Errorf("drawing content must be an image data URL")
		}
		if len(content) > MaxDrawingLength {
			return fmt.Errorf("drawing cannot exceed %d bytes", MaxDrawingLength)
		}
	default:
		return fmt.Errorf("invalid post type: %s. Valid types: %v", postType, []string{PostTypeText, PostTypeImage, PostTypeDrawing})
	}
	return nil
}

func ValidateGiftMessage(message string) error {
	if utf8.RuneCountInString(message) > MaxGiftMessageLength {
		return fmt.Errorf("message cannot exceed %d characters", MaxGiftMessageLength)
	}
	return nil
}

// ValidatePage clamps pagination to sane bounds.
func ValidatePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
