package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// RecruiterClaims are the claims the console reads from a recruiter's token.
// The signature is never verified here; the API remains the authority.
type RecruiterClaims struct {
	UserID string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// InspectToken decodes the claims of a JWT without verifying its signature.
// It returns ErrInvalidToken for anything that is not a JWT and ErrExpiredToken
// when the exp claim lies before now.
func InspectToken(tokenString string, now time.Time) (*RecruiterClaims, error) {
	claims := &RecruiterClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(now) {
		return claims, ErrExpiredToken
	}
	return claims, nil
}
