package admin

import (
	"errors"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/model"
	"ismartshop/shop-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Promote grants a user the admin role. The change lands in the next
// session that user starts; tokens already issued keep their old role
// until they expire.
func Promote(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	id := c.Param("id")

	if err := d.Store.SetUserRole(id, model.RoleAdmin); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to promote user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	zap.L().Info("User promoted to admin", zap.String("userID", id))

	c.JSON(http.StatusOK, gin.H{
		"message": "Promoted",
	})
}
