package model

import "errors"

var (
	// ErrNotFound is returned when a requested row or roster entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks user input that cannot be accepted (bad phone, empty name).
	ErrValidation = errors.New("validation error")
	// ErrWrite marks a failed remote write.
	ErrWrite = errors.New("write failed")
	// ErrAlreadyExists is returned on unique constraint conflicts.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoAccount is returned when an identity has no account membership.
	ErrNoAccount = errors.New("identity has no account")
	// ErrStorageDisabled is returned when object storage is not configured.
	ErrStorageDisabled = errors.New("object storage is not configured")
)

// Refresh token lifecycle errors.
var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
