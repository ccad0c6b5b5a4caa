package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	mgr := "manager-1"
	p := domain.Principal{UserID: "user-1", CompanyID: "co-1", Role: domain.RoleEmployee, ManagerID: &mgr}

	token, err := GenerateJWT(p, "secret", time.Minute, "issuer")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "issuer")
	require.NoError(t, err)
	assert.Equal(t, p, claims.Principal())
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	p := domain.Principal{UserID: "user-1", CompanyID: "co-1", Role: domain.RoleAdmin}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateJWT(p, "secret", time.Minute, "issuer")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "other", "issuer")
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := GenerateJWT(p, "secret", time.Minute, "someone-else")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "secret", "issuer")
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateJWT(p, "secret", -time.Minute, "issuer")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "secret", "issuer")
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("unknown role", func(t *testing.T) {
		bad := p
		bad.Role = "superuser"
		token, err := GenerateJWT(bad, "secret", time.Minute, "issuer")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "secret", "issuer")
		assert.Error(t, err)
	})
}
