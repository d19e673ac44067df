package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"telewall/internal/common/errors"
)

const (
	InitDataHeader = "X-Telegram-Init-Data"
	InitDataQuery  = "init_data"

	telegramUserKey = "telegram_user"
)

// InitData validates Telegram Mini App init-data and stores the parsed user in the context.
// It reads the X-Telegram-Init-Data header first and falls back to the init_data query parameter.
// expIn == 0 disables the auth_date expiration check.
func InitData(token string, expIn time.Duration, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			Abort(c, errors.New(errors.ErrCodeInternal, "init-data validation is not configured"), logger)
			return
		}

		raw := c.GetHeader(InitDataHeader)
		if raw == "" {
			raw = c.Query(InitDataQuery)
		}
		if raw == "" {
			Abort(c, errors.NewUnauthorizedError("Telegram init data required"), logger)
			return
		}

		if err := initdata.Validate(raw, token, expIn); err != nil {
			Abort(c, errors.NewInvalidInitDataError(err), logger)
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			Abort(c, errors.NewInvalidInitDataError(err), logger)
			return
		}
		if parsed.User.ID == 0 {
			Abort(c, errors.NewUnauthorizedError("init data carries no user"), logger)
			return
		}

		c.Set(telegramUserKey, parsed.User)
		c.Next()
	}
}

// TelegramUser returns the user stored by InitData.
func TelegramUser(c *gin.Context) (initdata.User, bool) {
	v, exists := c.Get(telegramUserKey)
	if !exists {
		return initdata.User{}, false
	}
	user, ok := v.(initdata.User)
	return user, ok
}
