package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/roundrobin/internal/api/rosterpb"
	"github.com/dtroode/roundrobin/internal/gate"
	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/service"
	"github.com/dtroode/roundrobin/internal/session"
)

// AuthService defines sign up, sign in and token operations.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (model.Identity, error)
	SignIn(ctx context.Context, email, password string) (service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error)
	Session(ctx context.Context, identityID uuid.UUID) (session.Session, error)
}

// Auth handles roster.v1.Auth.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, logger: logger}
}

func (h *Auth) SignUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email := rosterpb.String(in, "email")
	h.logger.Debug("Auth handler: processing sign up request", "email", email)

	identity, err := h.authService.SignUp(ctx, email, rosterpb.String(in, "password"))
	if err != nil {
		h.logger.Info("Auth handler: sign up failed", "email", email, "error", err.Error())
		return nil, handleError(err)
	}

	return rosterpb.NewStruct(map[string]any{
		"identity_id": identity.ID.String(),
		"email":       identity.Email,
	}), nil
}

func (h *Auth) SignIn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	email := rosterpb.String(in, "email")
	h.logger.Debug("Auth handler: processing sign in request", "email", email)

	pair, err := h.authService.SignIn(ctx, email, rosterpb.String(in, "password"))
	if err != nil {
		h.logger.Info("Auth handler: sign in failed", "email", email, "error", err.Error())
		return nil, handleError(err)
	}

	return tokenPair(pair), nil
}

// Refresh exchanges a refresh token for a new pair.
func (h *Auth) Refresh(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	refreshToken := rosterpb.String(in, "refresh_token")
	if refreshToken == "" {
		return nil, handleError(fmt.Errorf("%w: refresh token is required", model.ErrValidation))
	}

	pair, err := h.authService.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, handleError(err)
	}

	return tokenPair(pair), nil
}

// SignOut revokes a refresh token.
func (h *Auth) SignOut(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	refreshToken := rosterpb.String(in, "refresh_token")
	if refreshToken == "" {
		return nil, handleError(fmt.Errorf("%w: refresh token is required", model.ErrValidation))
	}

	if err := h.authService.SignOut(ctx, refreshToken); err != nil {
		return nil, handleError(err)
	}

	return rosterpb.Empty(), nil
}

// Gate reports which view the holder of access_token may see. A missing
// or rejected token is the anonymous state.
func (h *Auth) Gate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	state, accountID, err := h.gateState(ctx, rosterpb.String(in, "access_token"))
	if err != nil {
		h.logger.Error("Auth handler: gate lookup failed", "error", err.Error())
		return nil, handleError(err)
	}

	out := map[string]any{
		"state": string(state),
		"view":  string(state.View()),
	}
	if accountID != uuid.Nil {
		out["account_id"] = accountID.String()
	}
	return rosterpb.NewStruct(out), nil
}

func (h *Auth) gateState(ctx context.Context, accessToken string) (gate.State, uuid.UUID, error) {
	g := gate.New(func(ctx context.Context, identityID uuid.UUID) (uuid.UUID, error) {
		sess, err := h.authService.Session(ctx, identityID)
		if err != nil {
			return uuid.Nil, err
		}
		return sess.AccountID, nil
	})

	identityID := uuid.Nil
	if accessToken != "" {
		if id, err := h.authService.Authenticate(ctx, accessToken); err == nil {
			identityID = id
		}
	}

	state, err := g.SessionChanged(ctx, identityID)
	if errors.Is(err, model.ErrInvalidCredentials) {
		state, err = g.SessionChanged(ctx, uuid.Nil)
	}
	return state, g.AccountID(), err
}

func tokenPair(pair service.TokenPair) *structpb.Struct {
	return rosterpb.NewStruct(map[string]any{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}
