package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// IdentityStore defines persistence operations for authenticated admins.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (Identity, error)
	GetByID(ctx context.Context, id uuid.UUID) (Identity, error)
	Create(ctx context.Context, identity Identity) (Identity, error)
}

// Identity is an admin able to sign in.
type Identity struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
