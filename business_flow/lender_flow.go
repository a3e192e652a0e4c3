// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// pinnedLenderName always sorts first in offer listings, a partnership rule
const pinnedLenderName = "Credable"

// LenderFlow evaluates lender rules and serves the resulting offers
type LenderFlow interface {
	EvaluateLenders(ctx context.Context, merchantID uint, applicationUUID string, metadata *ClientMetadata) ([]dto.DecisionDTO, error)
	GetOffers(ctx context.Context, merchantID uint, applicationUUID string) ([]dto.OfferDTO, error)
	GetDecisionExplanation(ctx context.Context, merchantID uint, applicationUUID string) (*dto.DecisionExplanationDTO, error)
}

// LenderFlowImpl implements lender matching and offer generation
type LenderFlowImpl struct {
	applicationRepo repository.ApplicationRepository
	summaryRepo     repository.FinancialSummaryRepository
	scoreRepo       repository.EligibilityScoreRepository
	lenderRepo      repository.LenderRepository
	decisionRepo    repository.DecisionRepository
	offerRepo       repository.OfferRepository
	db              *gorm.DB
}

// NewLenderFlow creates a new lender flow instance
func NewLenderFlow(
	applicationRepo repository.ApplicationRepository,
	summaryRepo repository.FinancialSummaryRepository,
	scoreRepo repository.EligibilityScoreRepository,
	lenderRepo repository.LenderRepository,
	decisionRepo repository.DecisionRepository,
	offerRepo repository.OfferRepository,
	db *gorm.DB,
) LenderFlow {
	return &LenderFlowImpl{
		applicationRepo: applicationRepo,
		summaryRepo:     summaryRepo,
		scoreRepo:       scoreRepo,
		lenderRepo:      lenderRepo,
		decisionRepo:    decisionRepo,
		offerRepo:       offerRepo,
		db:              db,
	}
}

// EvaluateLenders runs every active lender's rule set against the scored
// application, replaces the decision set and regenerates offers.
func (f *LenderFlowImpl) EvaluateLenders(ctx context.Context, merchantID uint, applicationUUID string, metadata *ClientMetadata) ([]dto.DecisionDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	score, err := f.scoreRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_FAILED", "Lender evaluation failed", err)
	}
	if score == nil {
		return nil, NewBusinessError(dto.ErrorScoreMissing, "Calculate score first (POST /calculate-score)", ErrScoreMissing)
	}

	summary, err := f.summaryRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_FAILED", "Lender evaluation failed", err)
	}
	if summary == nil {
		return nil, NewBusinessError(dto.ErrorFinancialsMissing, "Extraction required first", ErrFinancialsMissing)
	}

	lenders, err := f.lenderRepo.Active(ctx)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_FAILED", "Lender evaluation failed", err)
	}

	var merchant models.Merchant
	if application.Merchant != nil {
		merchant = *application.Merchant
	}

	decisions := evaluateRules(lenders, summary.AvgMonthlyRevenue, merchant.BusinessAgeMonths, score.Score, merchant.Industry)
	offers := buildOffers(summary.AvgMonthlyRevenue, decisions, lenders)

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.decisionRepo.ReplaceForApplication(txCtx, application.ID, decisions); err != nil {
			return err
		}
		return f.offerRepo.ReplaceForApplication(txCtx, application.ID, offers)
	})
	if err != nil {
		return nil, NewBusinessError("EVALUATION_FAILED", "Lender evaluation failed", err)
	}

	persisted, err := f.decisionRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("EVALUATION_FAILED", "Lender evaluation failed", err)
	}

	result := make([]dto.DecisionDTO, 0, len(persisted))
	for _, decision := range persisted {
		result = append(result, ToDecisionDTO(*decision))
	}

	return result, nil
}

// evaluateRules applies each lender's rules in fixed order. The first
// failing rule rejects with a reason citing both values; passing all rules
// yields approved at score 75 and above, conditional below.
func evaluateRules(lenders []*models.Lender, revenue float64, vintageMonths, score int, industry *string) []*models.Decision {
	decisions := make([]*models.Decision, 0, len(lenders))

	for _, lender := range lenders {
		decision := &models.Decision{LenderID: lender.ID}

		switch {
		case revenue < lender.MinMonthlyRevenue:
			decision.Outcome = models.OutcomeRejected
			decision.Reason = fmt.Sprintf("Monthly revenue (₹%.1fL) is below minimum required (₹%.1fL).",
				revenue/1e5, lender.MinMonthlyRevenue/1e5)
		case vintageMonths < lender.MinBusinessVintageMonths:
			decision.Outcome = models.OutcomeRejected
			decision.Reason = fmt.Sprintf("Business vintage (%d months) is below minimum (%d months).",
				vintageMonths, lender.MinBusinessVintageMonths)
		case score < lender.MinEligibilityScore:
			decision.Outcome = models.OutcomeRejected
			decision.Reason = fmt.Sprintf("Eligibility score (%d) is below lender minimum (%d).",
				score, lender.MinEligibilityScore)
		case industry != nil && !lender.AllowedIndustries.Allows(*industry):
			decision.Outcome = models.OutcomeRejected
			decision.Reason = fmt.Sprintf("Industry %q is not in lender's allowed list.", *industry)
		case score >= 75:
			decision.Outcome = models.OutcomeApproved
			decision.Reason = "Meets all criteria for approval."
		default:
			decision.Outcome = models.OutcomeConditional
			decision.Reason = "Meets criteria with conditions; terms may vary."
		}

		decisions = append(decisions, decision)
	}

	return decisions
}

// buildOffers generates one offer per qualifying decision. The approved
// amount is a global revenue multiple clamped per lender; EMI bounds keep
// the source contract of emiMin from the max rate and emiMax from the min.
func buildOffers(revenue float64, decisions []*models.Decision, lenders []*models.Lender) []*models.Offer {
	lendersByID := make(map[uint]*models.Lender, len(lenders))
	for _, lender := range lenders {
		lendersByID[lender.ID] = lender
	}

	approvedAmount := math.Min(revenue*utils.RevenueMultiple, utils.MaxApprovedAmount)

	var offers []*models.Offer
	for _, decision := range decisions {
		if !decision.Outcome.Qualifies() {
			continue
		}
		lender := lendersByID[decision.LenderID]
		if lender == nil {
			continue
		}

		amount := math.Min(lender.LoanMaxAmount, math.Max(lender.LoanMinAmount, math.Min(approvedAmount, lender.LoanMaxAmount)))

		badges := models.BadgeList{}
		if lender.InterestRateMin <= 12 {
			badges = append(badges, models.BadgeBestRate)
		}
		if amount >= lender.LoanMaxAmount*0.9 {
			badges = append(badges, models.BadgeHighestAmount)
		}
		if len(badges) == 0 {
			badges = append(badges, models.BadgeFastApproval)
		}

		offers = append(offers, &models.Offer{
			LenderID:        lender.ID,
			ApprovedAmount:  amount,
			InterestRateMin: lender.InterestRateMin,
			InterestRateMax: lender.InterestRateMax,
			TenureMonths:    utils.OfferTenureMonths,
			EMIMin:          emi(amount, lender.InterestRateMax/100/12, utils.OfferTenureMonths),
			EMIMax:          emi(amount, lender.InterestRateMin/100/12, utils.OfferTenureMonths),
			Badges:          badges,
		})
	}

	// The globally lowest minimum rate earns Best Rate even when above the
	// 12 percent threshold. Ties keep first-encountered order.
	if len(offers) > 0 {
		cheapest := offers[0]
		for _, offer := range offers[1:] {
			if offer.InterestRateMin < cheapest.InterestRateMin {
				cheapest = offer
			}
		}
		if !cheapest.Badges.Contains(models.BadgeBestRate) {
			cheapest.Badges = append(models.BadgeList{models.BadgeBestRate}, cheapest.Badges...)
		}
	}

	for _, offer := range offers {
		if offer.Badges.Contains(models.BadgeBestRate) {
			offer.ApprovalProbability = models.ProbabilityHigh
		} else {
			offer.ApprovalProbability = models.ProbabilityMedium
		}
	}

	return offers
}

// emi computes the standard amortized monthly installment for principal p,
// monthly rate r and n months. Zero or negative rates degrade to p/n.
func emi(p, r float64, n int) float64 {
	if r <= 0 {
		return p / float64(n)
	}
	factor := math.Pow(1+r, float64(n))
	return p * r * factor / (factor - 1)
}

// GetOffers returns the application's offers, cheapest minimum rate first,
// with the pinned partner lender always sorted to the top.
func (f *LenderFlowImpl) GetOffers(ctx context.Context, merchantID uint, applicationUUID string) ([]dto.OfferDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	offers, err := f.offerRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("GET_OFFERS_FAILED", "Failed to load offers", err)
	}

	result := make([]dto.OfferDTO, 0, len(offers))
	for _, offer := range offers {
		result = append(result, ToOfferDTO(*offer))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].LenderName == pinnedLenderName {
			return result[j].LenderName != pinnedLenderName
		}
		return false
	})

	return result, nil
}

// GetDecisionExplanation explains the score and every lender's verdict
func (f *LenderFlowImpl) GetDecisionExplanation(ctx context.Context, merchantID uint, applicationUUID string) (*dto.DecisionExplanationDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	score, err := f.scoreRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("GET_EXPLANATION_FAILED", "Failed to load explanation", err)
	}

	explanation := &dto.DecisionExplanationDTO{
		Reasoning: "Score not yet calculated.",
	}
	var scoreValue int
	if score != nil {
		explanation.Score = score.Score
		explanation.Band = string(score.Band)
		explanation.Reasoning = score.Reasoning
		scoreValue = score.Score
	}
	explanation.ImprovementTips = improvementTips(scoreValue)

	decisions, err := f.decisionRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("GET_EXPLANATION_FAILED", "Failed to load explanation", err)
	}

	explanation.LenderOutcomes = make([]dto.DecisionDTO, 0, len(decisions))
	for _, decision := range decisions {
		explanation.LenderOutcomes = append(explanation.LenderOutcomes, ToDecisionDTO(*decision))
	}

	return explanation, nil
}

// improvementTips keys advice on the score band thresholds
func improvementTips(score int) []string {
	if score < 55 {
		return []string{
			"Increase monthly revenue consistency to improve eligibility.",
			"Build cash reserves to reduce negative balance days.",
			"Consider applying again after 6-12 months of stronger financials.",
		}
	}
	if score < 75 {
		return []string{
			"Improving revenue consistency may unlock better rates.",
			"Maintain a stable average bank balance above 20% of monthly revenue.",
		}
	}
	return []string{
		"You qualify for competitive offers. Compare lenders for the best terms.",
	}
}

func (f *LenderFlowImpl) ownedApplication(ctx context.Context, merchantID uint, applicationUUID string) (*models.Application, error) {
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
