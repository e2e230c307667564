package service

import "errors"

// Sentinel errors handlers map onto HTTP codes. Messages are safe to show a
// caller; nothing here ever carries password material.
var (
	ErrEmailTaken            = errors.New("email is already registered")
	ErrNoPendingVerification = errors.New("no pending verification for this email")
	ErrInvalidCode           = errors.New("invalid verification code")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmailNotVerified      = errors.New("email not verified")
)
