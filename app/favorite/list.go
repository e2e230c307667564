// Package favorite exposes the server-side favorite set and the
// reconciliation endpoints the client uses around login
package favorite

import (
	"net/http"

	"ismartshop/shop-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// List returns the server-held set, the source of truth once a session
// exists
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	ids, err := d.Favorites.Pull(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to pull favorites", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productIds": ids,
	})
}
