package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a permanent, verified identity. Rows only ever come out of a
// successful promotion of a PendingVerification, never straight from a
// registration request.
type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"passwordHash"`
	Verified     bool      `json:"verified"`
	Role         string    `gorm:"default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns the fields safe to hand to a client
func (u *User) Public() map[string]any {
	return map[string]any{
		"id":        u.ID,
		"email":     u.Email,
		"name":      u.Name,
		"role":      u.Role,
		"verified":  u.Verified,
		"createdAt": u.CreatedAt,
	}
}
