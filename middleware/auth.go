package middleware

import (
	"net/http"
	"strings"

	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// AuthMiddleware requires a valid access token, read from the Authorization
// header or, for websocket upgrades, the "token" query parameter.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		claims, err := tokens.ParseAccessToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}

// GetUserID returns the authenticated organizer id, or "" outside AuthMiddleware.
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}
