package types

import "github.com/golang-jwt/jwt/v4"

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	// Purpose is set on short-lived tokens only (password reset).
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

const TOKEN_PURPOSE_RESET_PASSWORD = "reset-password"
