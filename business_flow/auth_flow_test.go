package businessflow

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/app/services"
	"github.com/lendwise/lendwise/repository"
	lendwisetesting "github.com/lendwise/lendwise/testing"
	"github.com/lendwise/lendwise/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAuthFlow builds a flow against a throwaway database, skipping the
// test when no Postgres server is reachable.
func setupAuthFlow(t *testing.T) (AuthFlow, *lendwisetesting.TestDB) {
	t.Helper()

	testDB, err := lendwisetesting.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("teardown: %v", err)
		}
	})

	tokenService, err := services.NewTokenService(
		15*time.Minute, 24*time.Hour,
		"lendwise-test", "lendwise-api",
		false, "", "", "test-secret-key-with-enough-length-for-hs256",
	)
	require.NoError(t, err)

	mailer := services.NewMailerService(services.NewMockEmailProvider(), "http://localhost:3000/reset")

	flow := NewAuthFlow(
		repository.NewMerchantRepository(testDB.DB),
		repository.NewPasswordResetTokenRepository(testDB.DB),
		tokenService,
		mailer,
		testDB.DB,
	)

	return flow, testDB
}

func testMetadata() *ClientMetadata {
	return NewClientMetadata("127.0.0.1", "test-agent")
}

func TestAuthFlowSignupAndLogin(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := lendwisetesting.CreateTestContext()

	email := fmt.Sprintf("owner.%d@example.com", rand.Intn(10000000))
	signup, err := flow.Signup(ctx, &dto.SignupRequest{
		Email:    email,
		Password: "SecurePass123!",
		Name:     "Asha Patel",
		Phone:    utils.ToPtr("+919876543210"),
	}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, email, signup.Merchant.Email)
	assert.NotEmpty(t, signup.Tokens.AccessToken)
	assert.NotEmpty(t, signup.Tokens.RefreshToken)

	// Duplicate signup conflicts regardless of email casing.
	_, err = flow.Signup(ctx, &dto.SignupRequest{
		Email:    email,
		Password: "AnotherPass123!",
		Name:     "Asha Patel",
	}, testMetadata())
	assert.True(t, IsEmailAlreadyExists(err))

	login, err := flow.Login(ctx, &dto.LoginRequest{
		Email:    email,
		Password: "SecurePass123!",
	}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, signup.Merchant.UUID, login.Merchant.UUID)
	assert.NotEmpty(t, login.Tokens.AccessToken)
}

func TestAuthFlowLoginRejectsBadCredentials(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := lendwisetesting.CreateTestContext()

	email := fmt.Sprintf("owner.%d@example.com", rand.Intn(10000000))
	_, err := flow.Signup(ctx, &dto.SignupRequest{
		Email:    email,
		Password: "SecurePass123!",
		Name:     "Asha Patel",
	}, testMetadata())
	require.NoError(t, err)

	_, err = flow.Login(ctx, &dto.LoginRequest{
		Email:    email,
		Password: "WrongPass123!",
	}, testMetadata())
	assert.True(t, IsInvalidCredentials(err))

	// Unknown accounts fail the same way as wrong passwords.
	_, err = flow.Login(ctx, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "SecurePass123!",
	}, testMetadata())
	assert.Error(t, err)
}

func TestAuthFlowRefreshToken(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := lendwisetesting.CreateTestContext()

	signup, err := flow.Signup(ctx, &dto.SignupRequest{
		Email:    fmt.Sprintf("owner.%d@example.com", rand.Intn(10000000)),
		Password: "SecurePass123!",
		Name:     "Asha Patel",
	}, testMetadata())
	require.NoError(t, err)

	tokens, err := flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
		RefreshToken: signup.Tokens.RefreshToken,
	}, testMetadata())
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	_, err = flow.RefreshToken(ctx, &dto.RefreshTokenRequest{
		RefreshToken: "not-a-token",
	}, testMetadata())
	assert.Error(t, err)
}

func TestAuthFlowForgotPasswordIsUniform(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := lendwisetesting.CreateTestContext()

	// Unknown emails succeed silently so the endpoint leaks nothing.
	err := flow.ForgotPassword(ctx, &dto.ForgotPasswordRequest{
		Email: "nobody@example.com",
	}, testMetadata())
	assert.NoError(t, err)
}

func TestAuthFlowResetPasswordRejectsBogusToken(t *testing.T) {
	flow, _ := setupAuthFlow(t)
	ctx := lendwisetesting.CreateTestContext()

	err := flow.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:           "0123456789abcdef0123456789abcdef0123456789abcdef",
		NewPassword:     "NewSecure123!",
		ConfirmPassword: "NewSecure123!",
	}, testMetadata())
	assert.True(t, IsResetTokenInvalid(err))
}
