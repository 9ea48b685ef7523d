package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
)

var (
	errMissingToken = errors.New("missing authorization token")
	errInvalidToken = errors.New("invalid authorization token")
)

// TokenAuthenticator resolves an identity id from a bearer access token.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects the identity id into context.
type Authenticate struct {
	authenticator  TokenAuthenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator TokenAuthenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the authorization header, validates the token and returns
// a context carrying the identity id.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	var tokenString string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if authHeaders := md.Get("authorization"); len(authHeaders) > 0 {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		}
	}

	identityID, err := m.authenticate(ctx, tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected request", "error", err.Error())
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetIdentityIDToContext(ctx, identityID), nil
}

func (m *Authenticate) authenticate(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, errMissingToken
	}

	identityID, err := m.authenticator.Authenticate(ctx, tokenString)
	if err != nil || identityID == uuid.Nil {
		return uuid.Nil, errInvalidToken
	}

	return identityID, nil
}
