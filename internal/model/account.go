package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountStore defines persistence operations for accounts and memberships.
type AccountStore interface {
	// CreateWithOwner creates the account and the owner's admin membership atomically.
	CreateWithOwner(ctx context.Context, account Account, owner Membership) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByInviteCode(ctx context.Context, code string) (Account, error)
}

// MembershipStore resolves which account an identity belongs to.
type MembershipStore interface {
	GetByIdentity(ctx context.Context, identityID uuid.UUID) (Membership, error)
	Create(ctx context.Context, membership Membership) error
}

// Account is a tenant owning one roster.
type Account struct {
	ID         uuid.UUID
	Name       string
	CreatedBy  uuid.UUID
	InviteCode string
	CreatedAt  time.Time
}

// Membership links an identity to an account.
type Membership struct {
	IdentityID uuid.UUID
	AccountID  uuid.UUID
	Role       Role
	Email      string
	CreatedAt  time.Time
}

// Role of an identity within its account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)
