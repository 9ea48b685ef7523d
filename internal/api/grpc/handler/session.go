package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/session"
)

// SessionResolver builds the session of an authenticated identity.
type SessionResolver interface {
	Session(ctx context.Context, identityID uuid.UUID) (session.Session, error)
}

type sessions struct {
	contextManager model.ContextManager
	resolver       SessionResolver
}

// current resolves the request session. The membership is looked up on
// every call so a freshly created or joined account is seen immediately.
func (s sessions) current(ctx context.Context) (session.Session, error) {
	identityID, ok := s.contextManager.GetIdentityIDFromContext(ctx)
	if !ok {
		return session.Session{}, status.Error(codes.Unauthenticated, "missing identity")
	}
	sess, err := s.resolver.Session(ctx, identityID)
	if err != nil {
		return session.Session{}, handleError(err)
	}
	return sess, nil
}
