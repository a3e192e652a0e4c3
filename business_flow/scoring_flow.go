// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"context"
	"math"
	"strings"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// Factor weights, fixed constants summing to 1.0
const (
	weightRevenueStrength    = 0.30
	weightRevenueConsistency = 0.20
	weightBusinessVintage    = 0.15
	weightCashFlowHealth     = 0.20
	weightLoanVsRevenue      = 0.10
	weightRiskFlags          = 0.05
)

// ScoringFlow computes the weighted eligibility score for an application
type ScoringFlow interface {
	CalculateScore(ctx context.Context, merchantID uint, applicationUUID string, metadata *ClientMetadata) (*dto.EligibilityScoreDTO, error)
}

// ScoringFlowImpl implements the eligibility scoring business flow
type ScoringFlowImpl struct {
	applicationRepo repository.ApplicationRepository
	summaryRepo     repository.FinancialSummaryRepository
	scoreRepo       repository.EligibilityScoreRepository
	db              *gorm.DB
}

// NewScoringFlow creates a new scoring flow instance
func NewScoringFlow(
	applicationRepo repository.ApplicationRepository,
	summaryRepo repository.FinancialSummaryRepository,
	scoreRepo repository.EligibilityScoreRepository,
	db *gorm.DB,
) ScoringFlow {
	return &ScoringFlowImpl{
		applicationRepo: applicationRepo,
		summaryRepo:     summaryRepo,
		scoreRepo:       scoreRepo,
		db:              db,
	}
}

// CalculateScore scores the application from its financial summary and
// merchant profile, upserts the result and advances the status.
func (f *ScoringFlowImpl) CalculateScore(ctx context.Context, merchantID uint, applicationUUID string, metadata *ClientMetadata) (*dto.EligibilityScoreDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	summary, err := f.summaryRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("SCORING_FAILED", "Score calculation failed", err)
	}
	if summary == nil {
		return nil, NewBusinessError(dto.ErrorFinancialsMissing, "Run extraction first (POST /extract-financials)", ErrFinancialsMissing)
	}

	var merchant models.Merchant
	if application.Merchant != nil {
		merchant = *application.Merchant
	}

	requestedAmount := summary.AvgMonthlyRevenue * 3
	if application.RequestedAmount != nil {
		requestedAmount = *application.RequestedAmount
	}

	factors := models.FactorBreakdown{
		RevenueStrength:    scoreRevenueStrength(summary.AvgMonthlyRevenue),
		RevenueConsistency: scoreConsistency(summary.RevenueConsistency),
		BusinessVintage:    scoreVintage(merchant.BusinessAgeMonths),
		CashFlowHealth:     scoreCashFlow(summary.AvgBalance, summary.NegativeBalanceDays, summary.CashFlowVolatility),
		LoanVsRevenue:      scoreLoanVsRevenue(requestedAmount, summary.AvgMonthlyRevenue),
		RiskFlags:          scoreRiskFlags(summary.NegativeBalanceDays, summary.RevenueConsistency),
	}

	rawScore := factors.RevenueStrength*weightRevenueStrength +
		factors.RevenueConsistency*weightRevenueConsistency +
		factors.BusinessVintage*weightBusinessVintage +
		factors.CashFlowHealth*weightCashFlowHealth +
		factors.LoanVsRevenue*weightLoanVsRevenue +
		factors.RiskFlags*weightRiskFlags

	score := int(math.Round(math.Min(100, math.Max(0, rawScore*100))))
	band := models.BandForScore(score)
	reasoning := buildReasoning(band, factors)

	record := &models.EligibilityScore{
		ApplicationID:   application.ID,
		Score:           score,
		Band:            band,
		Reasoning:       reasoning,
		FactorBreakdown: factors,
		CreatedAt:       utils.UTCNow(),
		UpdatedAt:       utils.UTCNowPtr(),
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.scoreRepo.Upsert(txCtx, record); err != nil {
			return err
		}
		if application.Status.CanTransitionTo(models.ApplicationStatusDecisionGenerated) {
			return f.applicationRepo.UpdateStatus(txCtx, application.ID, models.ApplicationStatusDecisionGenerated)
		}
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("SCORING_FAILED", "Score calculation failed", err)
	}

	d := ToEligibilityScoreDTO(*record)
	return &d, nil
}

// scoreRevenueStrength is a step function of average monthly revenue
func scoreRevenueStrength(avgMonthlyRevenue float64) float64 {
	switch {
	case avgMonthlyRevenue >= 1_000_000:
		return 1
	case avgMonthlyRevenue >= 500_000:
		return 0.85
	case avgMonthlyRevenue >= 200_000:
		return 0.7
	case avgMonthlyRevenue >= 100_000:
		return 0.5
	default:
		return math.Min(1, avgMonthlyRevenue/100_000)
	}
}

func scoreConsistency(consistency models.ConsistencyLevel) float64 {
	switch consistency {
	case models.ConsistencyHigh:
		return 1
	case models.ConsistencyMedium:
		return 0.65
	default:
		return 0.35
	}
}

func scoreVintage(months int) float64 {
	switch {
	case months >= 36:
		return 1
	case months >= 24:
		return 0.85
	case months >= 12:
		return 0.65
	case months >= 6:
		return 0.45
	default:
		return math.Min(1, float64(months)/6)
	}
}

func scoreCashFlow(avgBalance float64, negativeDays int, volatility models.ConsistencyLevel) float64 {
	s := 0.5
	if avgBalance > 200_000 {
		s += 0.25
	} else if avgBalance > 50_000 {
		s += 0.15
	}
	if negativeDays == 0 {
		s += 0.2
	} else if negativeDays <= 2 {
		s += 0.05
	}
	if volatility == models.ConsistencyLow {
		s += 0.05
	} else if volatility == models.ConsistencyHigh {
		s -= 0.2
	}
	return math.Min(1, math.Max(0, s))
}

func scoreLoanVsRevenue(requested, monthlyRevenue float64) float64 {
	if monthlyRevenue <= 0 {
		return 0.5
	}
	ratio := requested / monthlyRevenue
	switch {
	case ratio <= 3:
		return 1
	case ratio <= 6:
		return 0.8
	case ratio <= 12:
		return 0.5
	default:
		return 0.3
	}
}

func scoreRiskFlags(negativeDays int, consistency models.ConsistencyLevel) float64 {
	if negativeDays > 5 {
		return 0.2
	}
	if negativeDays > 0 || consistency == models.ConsistencyLow {
		return 0.6
	}
	return 1
}

// buildReasoning concatenates qualitative sentences keyed on factor thresholds
func buildReasoning(band models.EligibilityBand, factors models.FactorBreakdown) string {
	var parts []string

	if factors.RevenueStrength >= 0.7 {
		parts = append(parts, "Strong revenue level")
	} else if factors.RevenueStrength < 0.5 {
		parts = append(parts, "Revenue below typical thresholds")
	}
	if factors.RevenueConsistency >= 0.8 {
		parts = append(parts, "Stable revenue pattern")
	} else if factors.RevenueConsistency < 0.5 {
		parts = append(parts, "Inconsistent revenue")
	}
	if factors.CashFlowHealth >= 0.7 {
		parts = append(parts, "Healthy cash flow")
	} else if factors.CashFlowHealth < 0.5 {
		parts = append(parts, "Cash flow needs improvement")
	}

	switch band {
	case models.BandRejected:
		parts = append(parts, "Overall eligibility below minimum. Consider improving revenue consistency and cash reserves.")
	case models.BandConditional:
		parts = append(parts, "Eligible for conditional offers. Strengthening revenue consistency may improve terms.")
	default:
		parts = append(parts, "Meets criteria for pre-approval.")
	}

	return strings.Join(parts, ". ")
}

func (f *ScoringFlowImpl) ownedApplication(ctx context.Context, merchantID uint, applicationUUID string) (*models.Application, error) {
	if _, err := utils.ParseUUID(applicationUUID); err != nil {
		return nil, NewBusinessError(dto.ErrorApplicationNotFound, "Application not found", ErrApplicationNotFound)
	}

	application, err := f.applicationRepo.ByUUID(ctx, applicationUUID)
	if err != nil {
		return nil, NewBusinessError("GET_APPLICATION_FAILED", "Failed to load application", err)
	}
	if application == nil {
		return nil, NewBusinessError(dto.ErrorApplicationNotFound, "Application not found", ErrApplicationNotFound)
	}
	if application.MerchantID != merchantID {
		return nil, NewBusinessError(dto.ErrorNotApplicationOwner, "Application belongs to another merchant", ErrNotApplicationOwner)
	}

	return application, nil
}
