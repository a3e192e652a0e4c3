// Package services provides external service integrations and technical concerns like tokens, OCR and mail
package services

import (
	"fmt"
	"log"
	"strings"
)

// MailerService handles transactional email delivery
type MailerService interface {
	SendPasswordReset(email, resetToken string) error
}

// MailerServiceImpl implements MailerService
type MailerServiceImpl struct {
	provider EmailProvider
	baseURL  string
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NewMailerService creates a new mailer service
func NewMailerService(provider EmailProvider, baseURL string) MailerService {
	return &MailerServiceImpl{
		provider: provider,
		baseURL:  baseURL,
	}
}

// SendPasswordReset sends a password reset link to the merchant
func (s *MailerServiceImpl) SendPasswordReset(email, resetToken string) error {
	if s.provider == nil {
		return fmt.Errorf("email provider not configured")
	}

	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	message := fmt.Sprintf("Reset your password: %s/reset-password?token=%s", s.baseURL, resetToken)
	return s.provider.SendEmail(email, "Reset your LendWise password", message)
}

// MockEmailProvider logs messages instead of sending them
type MockEmailProvider struct{}

// NewMockEmailProvider creates a logging email provider for development
func NewMockEmailProvider() EmailProvider {
	return &MockEmailProvider{}
}

// SendEmail logs the email to stdout
func (p *MockEmailProvider) SendEmail(email, subject, message string) error {
	log.Printf("Email sent to %s [%s]: %s", email, subject, message)
	return nil
}
