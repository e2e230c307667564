package favorite

import (
	"net/http"

	"ismartshop/shop-api/internal"

	"github.com/gin-gonic/gin"
)

type toggleBody struct {
	ProductID string   `json:"productId"`
	Favorites []string `json:"favorites"`
}

// Toggle flips a product in the client-held set and returns the updated
// set. Works for anonymous visitors; when a session is attached the server
// set is updated too, optimistically: a failed server write is logged and
// reconciled on the next pull, never bounced back to the client.
func Toggle(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data toggleBody
	if err := c.ShouldBind(&data); err != nil || data.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "productId is required",
			"requestID": requestID,
		})
		return
	}

	userID := ""
	if claims := d.Sessions.FromRequest(c.Request); claims != nil {
		userID = claims.UserID
	}

	updated := d.Favorites.Toggle(userID, data.Favorites, data.ProductID)

	c.JSON(http.StatusOK, gin.H{
		"favorites": updated,
	})
}
