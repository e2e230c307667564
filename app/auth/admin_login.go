package auth

import (
	"crypto/subtle"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type adminLoginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin issues an admin session from the operator credentials in
// config, for consoles that exist before any admin user record does
func AdminLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	adminUser := viper.GetString("admin.user")
	adminPass := viper.GetString("admin.pass")

	if adminUser == "" || adminPass == "" {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":     "Admin login not configured",
			"requestID": requestID,
		})

		zap.L().Warn("Admin login requested but admin.user/admin.pass not configured",
			zap.String("requestID", requestID))
		return
	}

	var data adminLoginBody
	if err := c.ShouldBind(&data); err != nil || data.Username == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Username and password are required",
			"requestID": requestID,
		})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(data.Username), []byte(adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(data.Password), []byte(adminPass)) == 1

	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid credentials",
			"requestID": requestID,
		})

		zap.L().Warn("Admin login failed", zap.String("requestID", requestID))
		return
	}

	token, err := d.Sessions.Issue("admin-"+adminUser, model.RoleAdmin, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue admin token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	setSessionCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"message": "ok",
		"token":   token,
	})
}
