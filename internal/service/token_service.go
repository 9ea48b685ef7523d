package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/logger"
	"github.com/dtroode/roundrobin/internal/model"
)

// TokenService issues, rotates and revokes token pairs. It composes the
// TokenManager and RefreshTokenStore.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	refreshTTL time.Duration
	logger     *logger.Logger
}

// NewTokenService creates a TokenService. refreshTTL is only used for the
// persisted expiry; the manager validates the token's own claims.
func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, refreshTTL time.Duration, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, refreshTTL: refreshTTL, logger: logger}
}

// TokenPair is an access token and the refresh token that renews it.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (s *TokenService) Issue(ctx context.Context, identityID uuid.UUID) (TokenPair, error) {
	access, err := s.manager.GenerateAccessToken(identityID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.persistRefresh(ctx, identityID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a refresh token. Presenting an already revoked token
// revokes every token of the identity.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (TokenPair, error) {
	identityID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if errors.Is(err, model.ErrNotFound) {
		return TokenPair{}, fmt.Errorf("%w: unknown refresh token", model.ErrInvalidCredentials)
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("load refresh: %w", err)
	}

	if err := validateRecord(rt, hashRefresh(presentedRefresh), time.Now()); err != nil {
		if errors.Is(err, model.ErrTokenRevoked) {
			s.logger.Warn("Token service: revoked refresh token reused", "identity_id", identityID, "jti", jti)
			if rerr := s.RevokeAllForIdentity(ctx, identityID); rerr != nil {
				s.logger.Error("Token service: failed to revoke tokens", "identity_id", identityID, "error", rerr)
			}
		}
		return TokenPair{}, err
	}

	access, err := s.manager.GenerateAccessToken(identityID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue new access: %w", err)
	}

	refresh, next, err := s.newRefresh(identityID, &rt.JTI)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.Rotate(ctx, rt.JTI, next); err != nil {
		if errors.Is(err, model.ErrTokenRevoked) {
			return TokenPair{}, err
		}
		return TokenPair{}, fmt.Errorf("rotate refresh: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}
	return s.store.RevokeByJTI(ctx, jti)
}

func (s *TokenService) RevokeAllForIdentity(ctx context.Context, identityID uuid.UUID) error {
	return s.store.RevokeAllByIdentity(ctx, identityID)
}

// IdentityID validates an access token.
func (s *TokenService) IdentityID(ctx context.Context, token string) (uuid.UUID, error) {
	return s.manager.ParseAccessToken(token)
}

func (s *TokenService) persistRefresh(ctx context.Context, identityID uuid.UUID) (string, error) {
	refresh, rt, err := s.newRefresh(identityID, nil)
	if err != nil {
		return "", err
	}
	if err := s.store.Create(ctx, rt); err != nil {
		return "", fmt.Errorf("persist refresh: %w", err)
	}
	return refresh, nil
}

func (s *TokenService) newRefresh(identityID uuid.UUID, rotatedFrom *string) (string, model.RefreshToken, error) {
	refresh, jti, err := s.manager.GenerateRefreshToken(identityID)
	if err != nil {
		return "", model.RefreshToken{}, fmt.Errorf("issue refresh: %w", err)
	}

	now := time.Now()
	return refresh, model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		IdentityID:     identityID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.refreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrTokenRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrTokenExpired
	}
	if subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1 {
		return model.ErrTokenMismatch
	}
	return nil
}
