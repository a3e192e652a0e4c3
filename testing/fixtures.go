// Package testing provides test utilities and database setup for testing the loan origination platform
package testing

import (
	"fmt"
	"math/rand"

	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestMerchant creates a merchant with a complete business profile
func (tf *TestFixtures) CreateTestMerchant() (*models.Merchant, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(10000000)
	merchant := &models.Merchant{
		Email:             fmt.Sprintf("merchant.%d@example.com", suffix),
		PasswordHash:      string(hashedPassword),
		Name:              "Asha Verma",
		Phone:             utils.ToPtr("+919812345678"),
		Role:              models.RoleMerchant,
		BusinessName:      utils.ToPtr(fmt.Sprintf("Verma Traders %d", suffix)),
		Industry:          utils.ToPtr("Retail"),
		City:              utils.ToPtr("Pune"),
		BusinessAgeMonths: 30,
		MonthlyRevenue:    utils.ToPtr(450000.0),
		CreatedAt:         utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(merchant).Error; err != nil {
		return nil, fmt.Errorf("failed to create test merchant: %w", err)
	}

	return merchant, nil
}

// CreateTestAdmin creates a back-office admin account
func (tf *TestFixtures) CreateTestAdmin() (*models.Merchant, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("AdminPass123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Merchant{
		Email:        fmt.Sprintf("admin.%d@example.com", rand.Intn(10000000)),
		PasswordHash: string(hashedPassword),
		Name:         "Platform Admin",
		Role:         models.RoleAdmin,
		CreatedAt:    utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}

	return admin, nil
}

// CreateTestApplication creates a draft application for the given merchant
func (tf *TestFixtures) CreateTestApplication(merchantID uint) (*models.Application, error) {
	application := &models.Application{
		MerchantID:         merchantID,
		LoanType:           models.LoanTypeWorkingCapital,
		Status:             models.ApplicationStatusDraft,
		RequestedAmount:    utils.ToPtr(1500000.0),
		FoundersCibilScore: utils.ToPtr(720),
	}

	if err := tf.DB.DB.Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create test application: %w", err)
	}

	return application, nil
}

// CreateTestDocument attaches a bank statement document to an application
func (tf *TestFixtures) CreateTestDocument(applicationID uint) (*models.Document, error) {
	document := &models.Document{
		ApplicationID: applicationID,
		Type:          models.DocumentTypeBankStatement,
		StoragePath:   fmt.Sprintf("/tmp/lendwise-test/%d/statement.pdf", applicationID),
		FileName:      "statement.pdf",
		MimeType:      "application/pdf",
		SizeBytes:     128 * 1024,
		CreatedAt:     utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(document).Error; err != nil {
		return nil, fmt.Errorf("failed to create test document: %w", err)
	}

	return document, nil
}

// CreateTestFinancialSummary creates an extracted summary for an application
func (tf *TestFixtures) CreateTestFinancialSummary(applicationID, documentID uint) (*models.FinancialSummary, error) {
	summary := &models.FinancialSummary{
		ApplicationID:       applicationID,
		DocumentID:          documentID,
		AvgMonthlyRevenue:   480000,
		HighestRevenue:      620000,
		LowestRevenue:       350000,
		AvgBalance:          95000,
		RevenueConsistency:  models.ConsistencyHigh,
		CashFlowVolatility:  models.ConsistencyLow,
		TransactionCount:    412,
		NegativeBalanceDays: 1,
		CreatedAt:           utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(summary).Error; err != nil {
		return nil, fmt.Errorf("failed to create test financial summary: %w", err)
	}

	return summary, nil
}

// CreateTestEligibilityScore creates a stored score for an application
func (tf *TestFixtures) CreateTestEligibilityScore(applicationID uint, score int) (*models.EligibilityScore, error) {
	record := &models.EligibilityScore{
		ApplicationID: applicationID,
		Score:         score,
		Band:          models.BandForScore(score),
		Reasoning:     "Strong revenue base. Consistent monthly revenue.",
		FactorBreakdown: models.FactorBreakdown{
			RevenueStrength:    0.85,
			RevenueConsistency: 1,
			BusinessVintage:    0.85,
			CashFlowHealth:     0.9,
			LoanVsRevenue:      0.8,
			RiskFlags:          1,
		},
		CreatedAt: utils.UTCNow(),
	}

	if err := tf.DB.DB.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create test eligibility score: %w", err)
	}

	return record, nil
}

// CreateSubmittedApplication creates a merchant plus a submitted application with
// a bank statement attached, ready for the decision pipeline.
func (tf *TestFixtures) CreateSubmittedApplication() (*models.Merchant, *models.Application, error) {
	merchant, err := tf.CreateTestMerchant()
	if err != nil {
		return nil, nil, err
	}

	application, err := tf.CreateTestApplication(merchant.ID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := tf.CreateTestDocument(application.ID); err != nil {
		return nil, nil, err
	}

	application.Status = models.ApplicationStatusSubmitted
	if err := tf.DB.DB.Save(application).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to submit test application: %w", err)
	}

	return merchant, application, nil
}
