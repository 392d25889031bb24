package middleware

import (
	"net/http"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/presentation/http/dto/response"
	"github.com/ferrigb/sistema-nota/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// AuthMiddleware authenticates a request from a Bearer token or the session cookie.
// API clients get a 401 envelope; browsers asking for a page are redirected to loginPath.
func AuthMiddleware(jwtManager *utils.JWTManager, cookieName, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if token == "" || err != nil {
			if wantsHTML(c) {
				c.Redirect(http.StatusFound, loginPath)
			} else if token == "" {
				response.Unauthorized(c, "Authentication required")
			} else {
				response.Unauthorized(c, "Invalid or expired session")
			}
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// wantsHTML reports a browser navigation outside the API
func wantsHTML(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	return c.Request.Method == http.MethodGet && strings.Contains(c.GetHeader("Accept"), "text/html")
}
