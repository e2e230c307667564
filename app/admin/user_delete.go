package admin

import (
	"errors"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserDelete removes an account and its favorites. This is the only way a
// User record ever disappears.
func UserDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	id := c.Param("id")

	if err := d.Store.DeleteUser(id); err != nil {
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

		zap.L().Error("Failed to delete user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deleted",
	})
}
