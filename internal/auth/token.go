package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sofiane-rh/salon-erp/internal/model"
)

const tokenTTL = 24 * time.Hour

type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies the session tokens returned by the login
// endpoint.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

func (i *Issuer) Issue(p model.Profile, now time.Time) (string, error) {
	claims := Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

var ErrInvalidToken = errors.New("invalid token")

func (i *Issuer) Verify(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if _, ok := model.ParseRole(string(claims.Role)); !ok {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
