package model

import (
	"context"

	"github.com/google/uuid"
)

// ContextManager stores the authenticated identity in a request context.
type ContextManager interface {
	SetIdentityIDToContext(ctx context.Context, identityID uuid.UUID) context.Context
	GetIdentityIDFromContext(ctx context.Context) (uuid.UUID, bool)
}
