// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/app/services"
	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// AuthFlow handles merchant registration and authentication
type AuthFlow interface {
	Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.TokenData, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest, metadata *ClientMetadata) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest, metadata *ClientMetadata) error
}

// AuthFlowImpl implements the authentication business flow
type AuthFlowImpl struct {
	merchantRepo   repository.MerchantRepository
	resetTokenRepo repository.PasswordResetTokenRepository
	tokenService   services.TokenService
	mailer         services.MailerService
	db             *gorm.DB
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	merchantRepo repository.MerchantRepository,
	resetTokenRepo repository.PasswordResetTokenRepository,
	tokenService services.TokenService,
	mailer services.MailerService,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		merchantRepo:   merchantRepo,
		resetTokenRepo: resetTokenRepo,
		tokenService:   tokenService,
		mailer:         mailer,
		db:             db,
	}
}

// Signup registers a new merchant account and issues tokens
func (f *AuthFlowImpl) Signup(ctx context.Context, req *dto.SignupRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := f.merchantRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}
	if existing != nil {
		return nil, NewBusinessError(dto.ErrorEmailAlreadyExists, "Email already registered", ErrEmailAlreadyExists)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	merchant := &models.Merchant{
		Email:        email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         models.RoleMerchant,
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.merchantRepo.Save(txCtx, merchant)
	})
	if err != nil {
		// A concurrent signup for the same email hits the unique index.
		if strings.Contains(err.Error(), "uk_merchants_email") || strings.Contains(err.Error(), "duplicate") {
			return nil, NewBusinessError(dto.ErrorEmailAlreadyExists, "Email already registered", ErrEmailAlreadyExists)
		}
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	return f.buildAuthResponse(merchant)
}

// Login authenticates a merchant and issues tokens
func (f *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	merchant, err := f.merchantRepo.ByEmail(ctx, email)
	if err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}
	if merchant == nil {
		return nil, NewBusinessError(dto.ErrorInvalidCredentials, "Invalid email or password", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(merchant.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError(dto.ErrorInvalidCredentials, "Invalid email or password", ErrInvalidCredentials)
	}

	return f.buildAuthResponse(merchant)
}

// RefreshToken exchanges a refresh token for a new token pair
func (f *AuthFlowImpl) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest, metadata *ClientMetadata) (*dto.TokenData, error) {
	accessToken, refreshToken, err := f.tokenService.RefreshToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("TOKEN_REFRESH_FAILED", "Token refresh failed", err)
	}

	return &dto.TokenData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    utils.UTCNowAdd(utils.AccessTokenTTL),
	}, nil
}

// ForgotPassword issues a reset token and mails it to the merchant. The
// response is uniform whether or not the email is registered.
func (f *AuthFlowImpl) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest, metadata *ClientMetadata) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	merchant, err := f.merchantRepo.ByEmail(ctx, email)
	if err != nil {
		return NewBusinessError("FORGOT_PASSWORD_FAILED", "Password reset request failed", err)
	}
	if merchant == nil {
		return nil
	}

	token, err := generateResetToken()
	if err != nil {
		return NewBusinessError("FORGOT_PASSWORD_FAILED", "Password reset request failed", err)
	}

	resetToken := &models.PasswordResetToken{
		MerchantID: merchant.ID,
		Email:      merchant.Email,
		Token:      token,
		ExpiresAt:  utils.UTCNowAdd(utils.PasswordResetTokenTTL),
	}

	if err := f.resetTokenRepo.Save(ctx, resetToken); err != nil {
		return NewBusinessError("FORGOT_PASSWORD_FAILED", "Password reset request failed", err)
	}

	// Mail delivery is best effort; failures must not reveal whether the
	// address exists.
	go func() {
		if err := f.mailer.SendPasswordReset(merchant.Email, token); err != nil {
			log.Printf("failed to send password reset mail: %v", err)
		}
	}()

	return nil
}

// ResetPassword consumes a reset token and stores the new password hash
func (f *AuthFlowImpl) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest, metadata *ClientMetadata) error {
	resetToken, err := f.resetTokenRepo.ByToken(ctx, req.Token)
	if err != nil {
		return NewBusinessError("RESET_PASSWORD_FAILED", "Password reset failed", err)
	}
	if resetToken == nil {
		return NewBusinessError(dto.ErrorResetTokenInvalid, "Reset token is invalid", ErrResetTokenInvalid)
	}
	if resetToken.IsExpired() {
		return NewBusinessError(dto.ErrorResetTokenExpired, "Reset token has expired", ErrResetTokenExpired)
	}

	merchant, err := f.merchantRepo.ByID(ctx, resetToken.MerchantID)
	if err != nil {
		return NewBusinessError("RESET_PASSWORD_FAILED", "Password reset failed", err)
	}
	if merchant == nil {
		return NewBusinessError("MERCHANT_NOT_FOUND", "Merchant not found", ErrMerchantNotFound)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewBusinessError("RESET_PASSWORD_FAILED", "Password reset failed", err)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		merchant.PasswordHash = string(passwordHash)
		merchant.UpdatedAt = utils.UTCNowPtr()
		if err := f.merchantRepo.Update(txCtx, *merchant); err != nil {
			return err
		}
		// Tokens are single use.
		return f.resetTokenRepo.Delete(txCtx, resetToken.ID)
	})
	if err != nil {
		return NewBusinessError("RESET_PASSWORD_FAILED", "Password reset failed", err)
	}

	return nil
}

func (f *AuthFlowImpl) buildAuthResponse(merchant *models.Merchant) (*dto.AuthResponse, error) {
	accessToken, refreshToken, err := f.tokenService.GenerateTokens(merchant.ID, merchant.Role.String())
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Token generation failed", err)
	}

	return &dto.AuthResponse{
		Tokens: dto.TokenData{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresAt:    utils.UTCNowAdd(utils.AccessTokenTTL),
		},
		Merchant: ToMerchantDTO(*merchant),
	}, nil
}

// generateResetToken produces an opaque 64-character hex token
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
