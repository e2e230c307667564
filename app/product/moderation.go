package product

import (
	"errors"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/model"
	"ismartshop/shop-api/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Moderation lists products still waiting for a decision. Admin only.
func Moderation(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	products, err := d.Store.Products(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list products for moderation", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	pending := make([]model.Product, 0)
	for _, p := range products {
		if p.Status == model.StatusPending {
			pending = append(pending, p)
		}
	}

	c.JSON(http.StatusOK, pending)
}

// Approve marks a pending product as approved. Admin only.
func Approve(c *gin.Context, d *internal.Deps) {
	setStatus(c, d, model.StatusApproved)
}

// Reject marks a pending product as rejected. Admin only.
func Reject(c *gin.Context, d *internal.Deps) {
	setStatus(c, d, model.StatusRejected)
}

func setStatus(c *gin.Context, d *internal.Deps, status string) {
	requestID := c.MustGet("requestID").(string)

	p, err := d.Store.UpdateProduct(c.Param("id"), map[string]any{"status": status})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Product not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to set product status", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, p)
}
