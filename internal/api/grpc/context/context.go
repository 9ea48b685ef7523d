package context

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// identityIDKey is the incoming metadata key carrying the authenticated identity.
const (
	identityIDKey string = "x-identity-id"
)

// Manager stores the authenticated identity id in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityIDToContext returns a context whose incoming metadata carries
// identityID. Existing metadata is preserved and a client supplied value is
// overwritten.
func (m *Manager) SetIdentityIDToContext(ctx context.Context, identityID uuid.UUID) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.New(map[string]string{identityIDKey: identityID.String()})
	} else {
		md = md.Copy()
		md.Set(identityIDKey, identityID.String())
	}

	return metadata.NewIncomingContext(ctx, md)
}

// GetIdentityIDFromContext returns the identity id set by SetIdentityIDToContext.
func (m *Manager) GetIdentityIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, false
	}

	ids := md.Get(identityIDKey)
	if len(ids) == 0 {
		return uuid.Nil, false
	}

	identityID, err := uuid.Parse(ids[0])
	if err != nil {
		return uuid.Nil, false
	}

	return identityID, true
}
