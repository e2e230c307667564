package auth

import (
	"errors"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/model"
	"ismartshop/shop-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Me returns the logged-in user or a JSON null. It deliberately never
// answers 401 so public pages can probe the session without console noise.
func Me(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	claims := d.Sessions.FromRequest(c.Request)
	if claims == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	// Operator tokens have no user record behind them
	if claims.IsAdmin() && claims.Email == "" {
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"email":    nil,
			"name":     "Admin",
			"role":     model.RoleAdmin,
			"verified": true,
		})
		return
	}

	u, err := d.Store.UserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token outlived the account
			c.JSON(http.StatusOK, nil)
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to load current user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, u.Public())
}
