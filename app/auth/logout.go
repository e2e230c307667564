package auth

import (
	"net/http"

	"ismartshop/shop-api/internal"

	"github.com/gin-gonic/gin"
)

func Logout(c *gin.Context, _ *internal.Deps) {
	clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
