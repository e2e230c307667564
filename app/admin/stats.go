// Package admin holds the operator console endpoints
package admin

import (
	"net/http"

	"ismartshop/shop-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Stats(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	counts, err := d.Store.Counts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to count records", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, counts)
}
