package favorite

import (
	"net/http"

	"ismartshop/shop-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addBody struct {
	ProductID string `json:"productId"`
}

// Add puts a product in the caller's server set. Adding a product that is
// already there is a no-op.
func Add(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data addBody
	if err := c.ShouldBind(&data); err != nil || data.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "productId is required",
			"requestID": requestID,
		})
		return
	}

	if err := d.Store.AddFavorite(userID, data.ProductID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to add favorite", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Added",
	})
}
