package product

import (
	"net/http"
	"time"

	"ismartshop/shop-api/internal"
	"ismartshop/shop-api/internal/model"
	"ismartshop/shop-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength  = 16
)

type createBody struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Colors      []string `json:"colors"`
}

// Create adds a product owned by the caller. New products start in the
// pending state until an admin approves them.
func Create(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	claims := middleware.Claims(c)

	var data createBody
	if err := c.ShouldBind(&data); err != nil || data.Title == "" || data.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Title and a positive price are required",
			"requestID": requestID,
		})
		return
	}

	id, err := gonanoid.Generate(idCharset, idLength)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate product ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	status := model.StatusPending
	if claims.IsAdmin() {
		status = model.StatusApproved
	}

	p := &model.Product{
		ID:          id,
		Title:       data.Title,
		Price:       data.Price,
		Image:       data.Image,
		Category:    data.Category,
		Description: data.Description,
		Colors:      data.Colors,
		Status:      status,
		OwnerID:     claims.UserID,
		CreatedAt:   time.Now(),
	}

	if err := d.Store.CreateProduct(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create product", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, p)
}
