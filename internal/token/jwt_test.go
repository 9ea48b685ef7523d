package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", 0, 0)
	u := uuid.New()

	access, err := j.GenerateAccessToken(u)
	require.NoError(t, err)
	got, err := j.ParseAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestJWT_RefreshToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret", 0, 0)
	u := uuid.New()

	refresh, jti, err := j.GenerateRefreshToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	gotIdentity, gotJTI, err := j.ParseRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, u, gotIdentity)
	require.Equal(t, jti, gotJTI)
	assert.Equal(t, DefaultRefreshTTL, j.RefreshTTL())
}

func TestJWT_TokenType_Mismatch(t *testing.T) {
	j := NewJWT("secret", 0, 0)
	u := uuid.New()

	access, err := j.GenerateAccessToken(u)
	require.NoError(t, err)
	_, _, err = j.ParseRefreshToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)

	refresh, _, err := j.GenerateRefreshToken(u)
	require.NoError(t, err)
	_, err = j.ParseAccessToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_Expired(t *testing.T) {
	j := NewJWT("secret", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Minute)
	j.now = func() time.Time { return issued }

	access, err := j.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseAccessToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	access, err := NewJWT("secret", 0, 0).GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = NewJWT("other", 0, 0).ParseAccessToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_RejectsForeignTokens(t *testing.T) {
	j := NewJWT("secret", 0, 0)
	now := time.Now()

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType: typeAccess,
	})
	s, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = j.ParseAccessToken(s)
	require.ErrorIs(t, err, ErrInvalidToken)

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "not-a-uuid",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType: typeAccess,
	})
	s, err = badSubject.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = j.ParseAccessToken(s)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.ParseAccessToken("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}
