package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists issued refresh tokens by their jti.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	Rotate(ctx context.Context, oldJTI string, next RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (RefreshToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByIdentity(ctx context.Context, identityID uuid.UUID) error
}

// RefreshToken is the server-side record of a refresh token. Only the
// token's SHA-256 hash is kept.
type RefreshToken struct {
	ID             uuid.UUID
	JTI            string
	IdentityID     uuid.UUID
	TokenHash      []byte
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
