package middleware

import (
	"time"

	"dog-sitter-api/logger"

	"github.com/gin-gonic/gin"
)

// SlowRequestThreshold marks requests worth a warning
const SlowRequestThreshold = 200 * time.Millisecond

// RequestLogger logs every request with its latency
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		evt := log.Info()
		switch {
		case status >= 500:
			evt = log.Error()
		case latency > SlowRequestThreshold:
			evt = log.Warn().Bool("slow", true)
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("user_id", GetPrincipal(c).UserID).
			Msg("request")
	}
}
