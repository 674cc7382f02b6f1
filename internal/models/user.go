package models

import "github.com/golang-jwt/jwt/v5"

// Claims defines the structure of the JWT claims issued by the auth service.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"` // woman, child, guardian
	jwt.RegisteredClaims
}
