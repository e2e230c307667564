package model

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Product struct {
	ID          string      `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Price       float64     `json:"price"`
	Image       string      `json:"image"`
	Category    string      `gorm:"index" json:"category"`
	Description string      `json:"description"`
	Colors      StringSlice `gorm:"type:text" json:"colors"`
	Status      string      `gorm:"index;default:pending" json:"status"`
	OwnerID     string      `gorm:"index" json:"ownerId"`
	CreatedAt   time.Time   `json:"createdAt"`
}
