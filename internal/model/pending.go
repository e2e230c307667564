package model

import "time"

// PendingVerification is the pre-identity an email holds between registering
// and confirming the mailed code. At most one exists per normalized email and
// it never coexists with a User for the same address. The password is hashed
// at registration time so promotion can create the User without touching the
// plaintext again.
type PendingVerification struct {
	Email        string    `gorm:"primaryKey" json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	Code         string    `json:"code"`
	CreatedAt    time.Time `json:"createdAt"`
}
