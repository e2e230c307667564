package model

import "time"

// Favorite links a user to a product. The pair is unique so re-adding an
// existing favorite is a no-op, which keeps the client-to-server migration
// idempotent.
type Favorite struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    string    `gorm:"uniqueIndex:idx_favorites_user_product" json:"userId"`
	ProductID string    `gorm:"uniqueIndex:idx_favorites_user_product" json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}
