package auth

import (
	"errors"
	"net/http"
	"strings"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Verify redeems a mailed code and promotes the pending registration into
// a permanent account
func Verify(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" || data.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and code are required",
			"requestID": requestID,
		})
		return
	}

	u, err := d.Reg.Verify(data.Email, strings.TrimSpace(data.Code))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPendingVerification):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "No pending verification for this email",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrInvalidCode):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid verification code",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to verify user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified, you can now log in",
		"user":    u.Public(),
	})
}
