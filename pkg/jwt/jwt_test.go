package jwt

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "alumno@mail.com")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alumno@mail.com", claims.Email)

	refresh, err := svc.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, userID, refresh.UserID)
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)
	pair, err := svc.GenerateTokenPair(uuid.New(), "a@b.c")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.ValidateToken(pair.AccessToken, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateInvalidToken(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)

	_, err := svc.ValidateToken("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateForeignSecret(t *testing.T) {
	other := NewJWTService("other", time.Minute, time.Minute)
	pair, err := other.GenerateTokenPair(uuid.New(), "a@b.c")
	require.NoError(t, err)

	svc := NewJWTService("secret", time.Minute, time.Minute)
	_, err = svc.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Second, -time.Second)

	pair, err := svc.GenerateTokenPair(uuid.New(), "expired@mail.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateWrongSigningMethod(t *testing.T) {
	svc := NewJWTService("secret", time.Minute, 2*time.Minute)

	claims := gjwt.MapClaims{
		"userId": uuid.NewString(),
		"email":  "x@y.z",
		"typ":    "access",
		"exp":    time.Now().Add(time.Minute).Unix(),
	}
	unsigned := gjwt.NewWithClaims(gjwt.SigningMethodNone, claims)
	tokenStr, err := unsigned.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(tokenStr, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_SignError(t *testing.T) {
	orig := signJWTToken
	t.Cleanup(func() { signJWTToken = orig })
	signJWTToken = func(*gjwt.Token, []byte) (string, error) {
		return "", errors.New("sign failed")
	}

	svc := NewJWTService("secret", time.Minute, time.Minute)
	_, err := svc.GenerateTokenPair(uuid.New(), "a@b.c")
	assert.Error(t, err)
}
