package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the payload of the tokens this API issues: the user id and
// email, plus the registered expiry (7 days from issue).
type UserClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
