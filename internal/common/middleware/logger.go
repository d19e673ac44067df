package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func Logger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			// init data is a credential and never reaches the log
			query := c.Request.URL.Query()
			query.Del(InitDataQuery)
			if encoded := query.Encode(); encoded != "" {
				path = path + "?" + encoded
			}
		}

		c.Next()

		logger.Info().
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Int("body_size", c.Writer.Size()).
			Msg("Request processed")
	}
}
