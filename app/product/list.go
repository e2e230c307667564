// Package product holds the catalog endpoints
package product

import (
	"net/http"

	"ismartshop/shop-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// List returns approved products. Admins may pass ?all=1 to include
// pending and rejected entries.
func List(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	includeAll := false
	if c.Query("all") == "1" {
		claims := d.Sessions.FromRequest(c.Request)
		includeAll = claims.IsAdmin()
	}

	products, err := d.Store.Products(includeAll)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list products", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, products)
}
