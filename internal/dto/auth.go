package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT. The core only ever sees the
// username; credentials never travel past the login handler.
type AuthClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LoginRequest represents the login request body.
// @Description Request body for authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login.
// @Description Response body containing the JWT token
type LoginResponse struct {
	Token     string `json:"token"`
	Message   string `json:"message"`
	ExpiresIn string `json:"expiresIn"`
}
