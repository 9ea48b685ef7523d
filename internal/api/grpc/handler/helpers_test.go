package handler

import (
	"context"

	"github.com/google/uuid"

	grpcctx "github.com/dtroode/roundrobin/internal/api/grpc/context"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/session"
)

type resolverStub struct {
	sessions map[uuid.UUID]session.Session
	err      error
}

func (r resolverStub) Session(_ context.Context, identityID uuid.UUID) (session.Session, error) {
	if r.err != nil {
		return session.Session{}, r.err
	}
	sess, ok := r.sessions[identityID]
	if !ok {
		return session.Session{}, model.ErrInvalidCredentials
	}
	return sess, nil
}

func authedContext(identityID uuid.UUID) context.Context {
	return grpcctx.NewManager().SetIdentityIDToContext(context.Background(), identityID)
}
