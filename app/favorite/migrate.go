package favorite

import (
	"net/http"

	"ismartshop/shop-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type migrateBody struct {
	ProductIDs []string `json:"productIds"`
}

// Migrate pushes the picks a visitor collected before logging in into
// their server set, then returns the server set as the new client truth.
// Products deleted in the meantime are silently dropped.
func Migrate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data migrateBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	merged, err := d.Favorites.Migrate(userID, data.ProductIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to migrate favorites", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"favorites": merged,
	})
}
