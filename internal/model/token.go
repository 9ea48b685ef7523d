package model

import "github.com/google/uuid"

// TokenManager generates and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(identityID uuid.UUID) (string, error)
	GenerateRefreshToken(identityID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (identityID uuid.UUID, jti string, err error)
}
