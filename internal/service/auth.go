package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
	"github.com/dtroode/roundrobin/internal/password"
	"github.com/dtroode/roundrobin/internal/session"
)

const minPasswordLength = 8

// Auth signs admins up and in, and builds their request sessions.
type Auth struct {
	identityStore   model.IdentityStore
	membershipStore model.MembershipStore
	tokenService    *TokenService
	hasher          *password.Hasher
	logger          *logger.Logger
}

func NewAuth(
	identityStore model.IdentityStore,
	membershipStore model.MembershipStore,
	tokenService *TokenService,
	hasher *password.Hasher,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		identityStore:   identityStore,
		membershipStore: membershipStore,
		tokenService:    tokenService,
		hasher:          hasher,
		logger:          logger,
	}
}

// SignUp creates an identity. It does not sign the identity in.
func (a *Auth) SignUp(ctx context.Context, email, pass string) (model.Identity, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return model.Identity{}, err
	}
	if len(pass) < minPasswordLength {
		return model.Identity{}, fmt.Errorf("%w: password must be at least %d characters", model.ErrValidation, minPasswordLength)
	}

	a.logger.Debug("Auth service: signing up", "email", email)

	_, err = a.identityStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: email already registered", "email", email)
		return model.Identity{}, fmt.Errorf("email %s: %w", email, model.ErrAlreadyExists)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get identity by email", "email", email, "error", err.Error())
		return model.Identity{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	hash, err := a.hasher.Hash(pass)
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	identity, err := a.identityStore.Create(ctx, model.Identity{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create identity", "email", email, "error", err.Error())
		return model.Identity{}, fmt.Errorf("failed to create identity: %w", err)
	}

	a.logger.Info("Auth service: identity created", "identity_id", identity.ID)
	return identity, nil
}

// SignIn checks credentials and issues a token pair.
func (a *Auth) SignIn(ctx context.Context, email, pass string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	a.logger.Debug("Auth service: signing in", "email", email)

	identity, err := a.identityStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return TokenPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get identity by email", "email", email, "error", err.Error())
		return TokenPair{}, fmt.Errorf("failed to get identity by email: %w", err)
	}

	ok, err := password.Verify(pass, identity.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: stored password hash is unusable", "identity_id", identity.ID, "error", err.Error())
		return TokenPair{}, model.ErrInvalidCredentials
	}
	if !ok {
		a.logger.Info("Auth service: wrong password", "identity_id", identity.ID)
		return TokenPair{}, model.ErrInvalidCredentials
	}

	pair, err := a.tokenService.Issue(ctx, identity.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens", "identity_id", identity.ID, "error", err.Error())
		return TokenPair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: signed in", "identity_id", identity.ID)
	return pair, nil
}

// Refresh rotates a refresh token.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	pair, err := a.tokenService.Refresh(ctx, refreshToken)
	if err != nil {
		a.logger.Info("Auth service: refresh rejected", "error", err.Error())
		return TokenPair{}, err
	}
	return pair, nil
}

// SignOut revokes a refresh token.
func (a *Auth) SignOut(ctx context.Context, refreshToken string) error {
	return a.tokenService.RevokeByToken(ctx, refreshToken)
}

// Authenticate validates an access token and returns the identity id.
func (a *Auth) Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error) {
	id, err := a.tokenService.IdentityID(ctx, accessToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}
	return id, nil
}

// Session loads the identity and its optional membership.
func (a *Auth) Session(ctx context.Context, identityID uuid.UUID) (session.Session, error) {
	identity, err := a.identityStore.GetByID(ctx, identityID)
	if errors.Is(err, model.ErrNotFound) {
		return session.Session{}, fmt.Errorf("%w: identity no longer exists", model.ErrInvalidCredentials)
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get identity: %w", err)
	}

	membership, err := a.membershipStore.GetByIdentity(ctx, identityID)
	if errors.Is(err, model.ErrNotFound) {
		return session.New(identity.ID, identity.Email, nil), nil
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to get membership: %w", err)
	}

	return session.New(identity.ID, identity.Email, &membership), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email %q", model.ErrValidation, email)
	}
	return email, nil
}
