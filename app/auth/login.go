package auth

import (
	"errors"
	"net/http"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/service"
	"ismartshop/shop-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const cookieMaxAge = 60 * 60 * 24 * 7

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil || data.Email == "" || data.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Email and password are required",
			"requestID": requestID,
		})
		return
	}

	u, err := d.Reg.Authenticate(data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid credentials",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrEmailNotVerified):
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "Email not verified",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to log in user", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	token, err := d.Sessions.Issue(u.ID, u.Role, u.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to issue session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	setSessionCookie(c, token)

	// The token also goes in the body for clients that can't attach
	// cross-site cookies and fall back to the Authorization header
	c.JSON(http.StatusOK, gin.H{
		"message": "ok",
		"token":   token,
		"user":    u.Public(),
	})
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(security.CookieName, token, cookieMaxAge, "/", "", viper.GetBool("host.ssl.enabled"), true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(security.CookieName, "", -1, "/", "", viper.GetBool("host.ssl.enabled"), true)
}
