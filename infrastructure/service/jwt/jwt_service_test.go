package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securematch/securematch/application/port/outbound"
)

func TestJWTService(t *testing.T) {
	svc, err := NewJWTService("test-secret", time.Hour, "securematch")
	require.NoError(t, err)

	t.Run("round trip keeps role", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(outbound.TokenClaims{UserID: "ops-1", Role: outbound.RoleInternal})
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "ops-1", claims.UserID)
		assert.Equal(t, outbound.RoleInternal, claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTService("other-secret", time.Hour, "securematch")
		require.NoError(t, err)
		token, err := other.GenerateAccessToken(outbound.TokenClaims{UserID: "ops-1"})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past, err := NewJWTService("test-secret", time.Minute, "securematch")
		require.NoError(t, err)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := past.GenerateAccessToken(outbound.TokenClaims{UserID: "ops-1"})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewJWTService("test-secret", time.Hour, "someone-else")
		require.NoError(t, err)
		token, err := other.GenerateAccessToken(outbound.TokenClaims{UserID: "ops-1"})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("non access token type", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": "ops-1",
			"type":    "refresh",
			"iss":     "securematch",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none is refused", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"user_id": "ops-1",
			"type":    "access",
			"iss":     "securematch",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService("", time.Hour, "")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
