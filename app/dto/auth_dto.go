// Package dto contains Data Transfer Objects for API request and response structures
package dto

import "time"

// SignupRequest represents the request payload for merchant registration
type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255" example:"owner@store.com"`
	Password string  `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	Name     string  `json:"name" validate:"required,min=2,max=255" example:"Asha Patel"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=20" example:"+919876543210"`
}

// LoginRequest represents the request payload for merchant login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255" example:"owner@store.com"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// TokenData carries the issued token pair
type TokenData struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponse represents a successful signup or login
type AuthResponse struct {
	Tokens   TokenData   `json:"tokens"`
	Merchant MerchantDTO `json:"merchant"`
}

// RefreshTokenRequest represents the request to exchange a refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ForgotPasswordRequest represents the request to initiate a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255" example:"owner@store.com"`
}

// ResetPasswordRequest represents the request to set a new password with a reset token
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required,min=32,max=128"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Common error codes for auth operations
const (
	ErrorEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	ErrorInvalidCredentials = "INVALID_CREDENTIALS"
	ErrorResetTokenInvalid  = "RESET_TOKEN_INVALID"
	ErrorResetTokenExpired  = "RESET_TOKEN_EXPIRED"
)
