package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/subtrackerapp/subtracker/internal/pkg/env"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"

	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the user identity and the token kind. The type claim keeps
// refresh tokens from being replayed as access tokens and vice versa.
type Claims struct {
	UserID uint   `json:"userId"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", "your-secret-key-change-in-production"))
}

func generate(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// GenerateAccessToken issues a short-lived access token for the user.
func GenerateAccessToken(userID uint) (string, error) {
	return generate(userID, TypeAccess, accessTokenTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for the user.
func GenerateRefreshToken(userID uint) (string, error) {
	return generate(userID, TypeRefresh, refreshTokenTTL)
}

// GeneratePair issues a fresh access/refresh token pair.
func GeneratePair(userID uint) (access string, refresh string, err error) {
	access, err = GenerateAccessToken(userID)
	if err != nil {
		return "", "", err
	}
	refresh, err = GenerateRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify parses the token, checks the signature and expiry, and enforces the
// expected token type.
func Verify(tokenString, expectedType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret(), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Type != expectedType || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
