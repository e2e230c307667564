package middleware

import (
	"net/http"

	"ismartshop/shop-api/pkg/security"

	"github.com/gin-gonic/gin"
)

// NewAuthMiddleware rejects requests that don't carry a valid session
// token. Valid claims are stored on the context for the handler. Endpoints
// that want to treat missing auth as anonymous instead call
// Sessions.FromRequest themselves.
func NewAuthMiddleware(s *security.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		claims := s.FromRequest(c.Request)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Unauthorized",
				"requestID": requestID,
			})
			return
		}

		c.Set("claims", claims)
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// AdminOnly must run after NewAuthMiddleware
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		claims := c.MustGet("claims").(*security.Claims)
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "Forbidden",
				"requestID": requestID,
			})
			return
		}

		c.Next()
	}
}

// Claims returns the session claims set by NewAuthMiddleware.
func Claims(c *gin.Context) *security.Claims {
	return c.MustGet("claims").(*security.Claims)
}

// NoStore disables caching, required on every auth endpoint so browsers
// never serve a stale identity.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
