package model

// Category name uniqueness is case-insensitive. Deleting a category removes
// every product that references it.
type Category struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
