// Package token issues and validates HMAC-signed access and refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/roundrobin/internal/model"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry, issuer
// or type checks.
var ErrInvalidToken = errors.New("invalid token")

const (
	issuer = "roundrobin"

	typeAccess  = "access"
	typeRefresh = "refresh"

	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Claims represents JWT claims with the token type. The identity id is
// carried in the subject.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"typ"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWT creates a token manager. Zero TTLs fall back to the defaults.
func NewJWT(secretKey string, accessTTL, refreshTTL time.Duration) *JWT {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &JWT{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// RefreshTTL is how long refresh tokens stay valid.
func (j *JWT) RefreshTTL() time.Duration {
	return j.refreshTTL
}

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(identityID uuid.UUID) (string, error) {
	token, err := j.sign(identityID, typeAccess, "", j.accessTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// GenerateRefreshToken creates a long-lived refresh token and returns its JTI.
func (j *JWT) GenerateRefreshToken(identityID uuid.UUID) (string, string, error) {
	jti := uuid.NewString()
	token, err := j.sign(identityID, typeRefresh, jti, j.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, jti, nil
}

// ParseAccessToken validates an access token and returns its identity id.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims, err := j.parse(tokenString, typeAccess)
	if err != nil {
		return uuid.Nil, err
	}
	return subject(claims)
}

// ParseRefreshToken validates a refresh token and returns its identity id
// and JTI.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, string, error) {
	claims, err := j.parse(tokenString, typeRefresh)
	if err != nil {
		return uuid.Nil, "", err
	}
	if claims.ID == "" {
		return uuid.Nil, "", fmt.Errorf("%w: refresh token without jti", ErrInvalidToken)
	}
	id, err := subject(claims)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, claims.ID, nil
}

func (j *JWT) sign(identityID uuid.UUID, typ, jti string, ttl time.Duration) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    issuer,
			Subject:   identityID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: typ,
	})
	return token.SignedString(j.secretKey)
}

func (j *JWT) parse(tokenString, typ string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s token: %v", ErrInvalidToken, typ, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: %s token is invalid", ErrInvalidToken, typ)
	}
	if claims.TokenType != typ {
		return nil, fmt.Errorf("%w: token type mismatch: %s", ErrInvalidToken, claims.TokenType)
	}
	return claims, nil
}

func subject(claims *Claims) (uuid.UUID, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject: %v", ErrInvalidToken, err)
	}
	return id, nil
}
