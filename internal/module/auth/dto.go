package auth

import (
	"time"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/user"
)

// LoginRequest is the payload for password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the payload for rotating a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest is the payload for revoking a refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPair holds an access/refresh token pair.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginResponse is returned on successful login or registration.
type LoginResponse struct {
	User   *user.UserResponse `json:"user"`
	Tokens *TokenPair         `json:"tokens"`
}
