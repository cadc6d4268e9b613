// Package auth signs and verifies the bearer tokens of the API.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hottakes/hottakes-api/internal/apperr"
)

const (
	Issuer   = "hottakes-api"
	Audience = "hottakes-front"

	bearerPrefix = "Bearer "
)

// Claims carried by an access token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller of one request.
type Identity struct {
	UserID string
}

// Authenticator issues and verifies HS256 tokens with a shared secret.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithAudience(Audience),
			jwt.WithExpirationRequired(),
		),
		now: time.Now,
	}
}

// Issue signs a token for userID.
func (a *Authenticator) Issue(userID string) (string, time.Time, error) {
	now := a.now()
	expirationTime := now.Add(a.ttl)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

// Authenticate verifies an Authorization header value.
func (a *Authenticator) Authenticate(header string) (Identity, error) {
	if header == "" {
		return Identity{}, apperr.AuthMissing()
	}
	tokenString, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || strings.TrimSpace(tokenString) == "" {
		return Identity{}, apperr.AuthInvalid("bearer token required", nil)
	}

	var claims Claims
	_, err := a.parser.ParseWithClaims(strings.TrimSpace(tokenString), &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, apperr.TokenExpired(numericTime(claims.ExpiresAt), err)
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Identity{}, apperr.TokenNotActive(numericTime(claims.NotBefore), err)
		}
		return Identity{}, apperr.AuthInvalid("invalid token", err)
	}

	if claims.UserID == "" {
		return Identity{}, apperr.MalformedSubject()
	}
	return Identity{UserID: claims.UserID}, nil
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
