package product

import (
	"errors"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/model"
	"ismartshop/shop-api/internal/store"
	"ismartshop/shop-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Edit updates fields of a product. Only the owner or an admin may edit,
// and only admins can touch the moderation status.
func Edit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	claims := middleware.Claims(c)

	existing, err := d.Store.ProductByID(c.Param("id"))
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

		zap.L().Error("Failed to fetch product", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if existing.OwnerID != claims.UserID && !claims.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "You don't own this product",
			"requestID": requestID,
		})
		return
	}

	var body map[string]any
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	changes := map[string]any{}
	for _, k := range []string{"title", "price", "image", "category", "description"} {
		if v, ok := body[k]; ok {
			changes[k] = v
		}
	}

	if v, ok := body["colors"]; ok {
		if raw, ok := v.([]any); ok {
			colors := make(model.StringSlice, 0, len(raw))
			for _, e := range raw {
				if s, ok := e.(string); ok {
					colors = append(colors, s)
				}
			}
			changes["colors"] = colors
		}
	}

	// Status transitions are moderation, not editing
	if v, ok := body["status"]; ok && claims.IsAdmin() {
		changes["status"] = v
	}

	p, err := d.Store.UpdateProduct(existing.ID, changes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to update product", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, p)
}
