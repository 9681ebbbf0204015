// Package auth verifies the session tokens the external auth provider
// issues for authenticated principals. Credential storage and password
// flows live entirely on the provider side.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nazmulrahman/young-star-app/internal/errdefs"
	"github.com/nazmulrahman/young-star-app/internal/identity"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewSessionToken(secret, issuer string, ttl time.Duration, p identity.Principal) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseSessionToken(secret, tokenString string) (identity.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return identity.Principal{}, fmt.Errorf("%w: %v", errdefs.ErrAuthentication, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return identity.Principal{}, fmt.Errorf("%w: invalid claims", errdefs.ErrAuthentication)
	}
	return identity.Principal{ID: claims.Subject, Email: claims.Email}, nil
}
