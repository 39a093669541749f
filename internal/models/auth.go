package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims is the payload of access tokens minted by the identity provider.
// The subject carries the user id.
type JWTClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Session is the resolved identity for one request. It is built from the
// persisted profile, never from token claims alone.
type Session struct {
	UserID           string   `json:"user_id"`
	Email            string   `json:"email"`
	Role             UserRole `json:"role"`
	IsSuperAdmin     bool     `json:"is_super_admin"`
	Username         *string  `json:"username,omitempty"`
	UsernameVerified bool     `json:"username_verified"`
}

// NewSession snapshots the authorization relevant fields of u.
func NewSession(u User) Session {
	return Session{
		UserID:           u.ID,
		Email:            u.Email,
		Role:             u.Role,
		IsSuperAdmin:     u.IsSuperAdmin,
		Username:         u.Username,
		UsernameVerified: u.UsernameVerified,
	}
}
