package utils

import (
	"errors"
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// PrincipalClaims is the JWT payload handed over by the external credential issuer.
// Subject carries the user id.
type PrincipalClaims struct {
	jwt.RegisteredClaims
	CompanyID string          `json:"companyID"`
	Role      domain.UserRole `json:"role"`
	ManagerID *string         `json:"managerID,omitempty"`
}

// Principal converts the claims to the domain principal.
func (c PrincipalClaims) Principal() domain.Principal {
	return domain.Principal{
		UserID:    c.Subject,
		CompanyID: c.CompanyID,
		Role:      c.Role,
		ManagerID: c.ManagerID,
	}
}

// GenerateJWT signs a token for the principal. Used by the seed command and tests;
// production tokens come from the credential issuer.
func GenerateJWT(p domain.Principal, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := PrincipalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
		CompanyID: p.CompanyID,
		Role:      p.Role,
		ManagerID: p.ManagerID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a token, validates its signature, issuer and standard claims,
// and checks that the principal fields are present.
func ParseAndValidateJWT(tokenString, secretKey, issuer string) (*PrincipalClaims, error) {
	claims := &PrincipalClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	if claims.Subject == "" || claims.CompanyID == "" {
		return nil, errors.New("token is missing subject or company")
	}
	if !claims.Role.IsValid() {
		return nil, errors.New("token carries an unknown role")
	}
	return claims, nil
}
