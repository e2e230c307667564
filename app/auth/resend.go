package auth

import (
	"errors"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type resendBody struct {
	Email string `json:"email"`
}

// Resend rotates and re-sends the verification code for an email stuck
// before verification
func Resend(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data resendBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email is required",
			"requestID": requestID,
		})
		return
	}

	code, err := d.Reg.Resend(data.Email)
	if err != nil {
		if errors.Is(err, service.ErrNoPendingVerification) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "No pending verification for this email",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resend code", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	resp := gin.H{
		"message":   "A new code is on its way",
		"requestID": requestID,
	}

	if viper.GetBool("debug.echo_codes") {
		resp["code"] = code
	}

	c.JSON(http.StatusOK, resp)
}
