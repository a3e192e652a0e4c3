package repository

import (
	"context"

	"github.com/lendwise/lendwise/models"
)

// MerchantRepository defines data access for merchant accounts
type MerchantRepository interface {
	ByID(ctx context.Context, id uint) (*models.Merchant, error)
	ByUUID(ctx context.Context, uuid string) (*models.Merchant, error)
	ByEmail(ctx context.Context, email string) (*models.Merchant, error)
	Save(ctx context.Context, merchant *models.Merchant) error
	Update(ctx context.Context, merchant models.Merchant) error
	ListMerchants(ctx context.Context, search string) ([]*MerchantWithApplicationCount, error)
}

// ApplicationRepository defines data access for loan applications
type ApplicationRepository interface {
	ByID(ctx context.Context, id uint) (*models.Application, error)
	ByUUID(ctx context.Context, uuid string) (*models.Application, error)
	ByMerchantID(ctx context.Context, merchantID uint) ([]*models.Application, error)
	ByFilter(ctx context.Context, filter models.ApplicationFilter) ([]*models.Application, error)
	Save(ctx context.Context, application *models.Application) error
	Update(ctx context.Context, application models.Application) error
	UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error
}

// DocumentRepository defines data access for uploaded documents
type DocumentRepository interface {
	ByID(ctx context.Context, id uint) (*models.Document, error)
	ByApplicationID(ctx context.Context, applicationID uint) ([]*models.Document, error)
	Save(ctx context.Context, document *models.Document) error
}

// FinancialSummaryRepository defines data access for extracted financials
type FinancialSummaryRepository interface {
	ByApplicationID(ctx context.Context, applicationID uint) (*models.FinancialSummary, error)
	ReplaceForApplication(ctx context.Context, applicationID uint, summary *models.FinancialSummary) error
}

// EligibilityScoreRepository defines data access for eligibility scores
type EligibilityScoreRepository interface {
	ByApplicationID(ctx context.Context, applicationID uint) (*models.EligibilityScore, error)
	Upsert(ctx context.Context, score *models.EligibilityScore) error
}

// LenderRepository defines read access to lender reference data
type LenderRepository interface {
	ByID(ctx context.Context, id uint) (*models.Lender, error)
	BySlug(ctx context.Context, slug string) (*models.Lender, error)
	Active(ctx context.Context) ([]*models.Lender, error)
	Save(ctx context.Context, lender *models.Lender) error
}

// DecisionRepository defines data access for per-lender decisions
type DecisionRepository interface {
	ByApplicationID(ctx context.Context, applicationID uint) ([]*models.Decision, error)
	QualifyingByApplicationID(ctx context.Context, applicationID uint) ([]*models.Decision, error)
	ReplaceForApplication(ctx context.Context, applicationID uint, decisions []*models.Decision) error
}

// OfferRepository defines data access for generated offers
type OfferRepository interface {
	ByApplicationID(ctx context.Context, applicationID uint) ([]*models.Offer, error)
	ReplaceForApplication(ctx context.Context, applicationID uint, offers []*models.Offer) error
}

// PasswordResetTokenRepository defines data access for reset tokens
type PasswordResetTokenRepository interface {
	ByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	Save(ctx context.Context, token *models.PasswordResetToken) error
	Delete(ctx context.Context, id uint) error
}
