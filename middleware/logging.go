package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. Paths go through MaskString since
// public routes embed sharing codes and ids.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", utils.MaskString(c.Request.URL.Path),
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}

// Recovery turns a panic into a 500 and reports it to error tracking.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.RecoverAndAlert(fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()), rec)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}
