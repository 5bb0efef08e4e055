package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID         int64
	Email          string
	Name           string
	Roles          []string
	SessionVersion int64
	JTI            string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID         int64    `json:"user_id"`
	Email          string   `json:"email"`
	Name           string   `json:"name,omitempty"`
	Roles          []string `json:"roles"`
	SessionVersion int64    `json:"session_version"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry the given role name.
func (c *AccessTokenClaims) HasRole(name string) bool {
	for _, role := range c.Roles {
		if role == name {
			return true
		}
	}
	return false
}
