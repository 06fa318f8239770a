// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sellermetrics/leadstack-go/internal/domain/users"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateAccessToken creates a signed JWT for an authenticated user.
func GenerateAccessToken(user *users.User, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"email":   user.Email,
		"name":    user.Name,
		"isAdmin": user.IsAdmin,
		"iat":     time.Now().UTC().Unix(),
		"exp":     time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// UserIDFromClaims extracts the subject user ID from JWT claims.
func UserIDFromClaims(claims jwt.MapClaims) (string, bool) {
	sub, ok := claims["sub"].(string)
	return sub, ok && sub != ""
}

// IsAdminFromClaims reports whether the claims carry the admin flag.
func IsAdminFromClaims(claims jwt.MapClaims) bool {
	isAdmin, ok := claims["isAdmin"].(bool)
	return ok && isAdmin
}
