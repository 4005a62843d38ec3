package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reusedev/koi/internal/modules/logs"
)

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		statusCode := c.Writer.Status()
		event := logs.Logger.Info()
		if statusCode >= http.StatusInternalServerError {
			event = logs.Logger.Warn()
		}
		event.Str("method", method).
			Str("path", path).
			Str("client_ip", c.ClientIP()).
			Int("status_code", statusCode).
			Dur("req_consume_ms", time.Since(start)).
			Msg("panel request")
	}
}
