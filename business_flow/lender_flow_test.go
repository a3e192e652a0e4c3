package businessflow

import (
	"testing"

	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLenderPanel() []*models.Lender {
	return []*models.Lender{
		{
			ID:                       1,
			Name:                     "Credable",
			Slug:                     "credable",
			MinMonthlyRevenue:        50000,
			MinBusinessVintageMonths: 3,
			MinEligibilityScore:      50,
			LoanMinAmount:            100000,
			LoanMaxAmount:            10000000,
			InterestRateMin:          12,
			InterestRateMax:          20,
		},
		{
			ID:                       2,
			Name:                     "QuickCapital",
			Slug:                     "quickcapital",
			MinMonthlyRevenue:        200000,
			MinBusinessVintageMonths: 12,
			MinEligibilityScore:      60,
			LoanMinAmount:            200000,
			LoanMaxAmount:            5000000,
			InterestRateMin:          14,
			InterestRateMax:          22,
		},
		{
			ID:                       3,
			Name:                     "BizFund Pro",
			Slug:                     "bizfund-pro",
			MinMonthlyRevenue:        500000,
			MinBusinessVintageMonths: 24,
			MinEligibilityScore:      70,
			LoanMinAmount:            500000,
			LoanMaxAmount:            10000000,
			InterestRateMin:          12,
			InterestRateMax:          18,
			AllowedIndustries:        models.IndustryList{"Retail", "Manufacturing", "Services"},
		},
	}
}

func TestEvaluateRulesRevenueFloor(t *testing.T) {
	lenders := testLenderPanel()
	decisions := evaluateRules(lenders, 40000, 36, 80, nil)

	require.Len(t, decisions, 3)
	for _, decision := range decisions {
		assert.Equal(t, models.OutcomeRejected, decision.Outcome)
	}
	assert.Equal(t, "Monthly revenue (₹0.4L) is below minimum required (₹0.5L).", decisions[0].Reason)
}

func TestEvaluateRulesVintageFloor(t *testing.T) {
	lenders := testLenderPanel()
	decisions := evaluateRules(lenders, 600000, 6, 80, nil)

	assert.Equal(t, models.OutcomeApproved, decisions[0].Outcome, "Credable accepts 6 months vintage")
	assert.Equal(t, models.OutcomeRejected, decisions[1].Outcome)
	assert.Equal(t, "Business vintage (6 months) is below minimum (12 months).", decisions[1].Reason)
	assert.Equal(t, models.OutcomeRejected, decisions[2].Outcome)
}

func TestEvaluateRulesScoreFloor(t *testing.T) {
	lenders := testLenderPanel()
	decisions := evaluateRules(lenders, 600000, 36, 65, nil)

	assert.Equal(t, models.OutcomeConditional, decisions[0].Outcome)
	assert.Equal(t, models.OutcomeConditional, decisions[1].Outcome)
	assert.Equal(t, models.OutcomeRejected, decisions[2].Outcome)
	assert.Equal(t, "Eligibility score (65) is below lender minimum (70).", decisions[2].Reason)
}

func TestEvaluateRulesIndustryRestriction(t *testing.T) {
	lenders := testLenderPanel()
	industry := "Hospitality"
	decisions := evaluateRules(lenders, 600000, 36, 80, &industry)

	assert.Equal(t, models.OutcomeApproved, decisions[0].Outcome, "open industry list passes")
	assert.Equal(t, models.OutcomeApproved, decisions[1].Outcome)
	assert.Equal(t, models.OutcomeRejected, decisions[2].Outcome)
	assert.Equal(t, `Industry "Hospitality" is not in lender's allowed list.`, decisions[2].Reason)
}

func TestEvaluateRulesApprovalBands(t *testing.T) {
	lenders := testLenderPanel()

	approved := evaluateRules(lenders, 600000, 36, 75, nil)
	for _, decision := range approved {
		assert.Equal(t, models.OutcomeApproved, decision.Outcome)
		assert.Equal(t, "Meets all criteria for approval.", decision.Reason)
	}

	conditional := evaluateRules(lenders, 600000, 36, 74, nil)
	assert.Equal(t, models.OutcomeConditional, conditional[0].Outcome)
	assert.Equal(t, "Meets criteria with conditions; terms may vary.", conditional[0].Reason)
}

func TestEvaluateRulesNoIndustryDeclared(t *testing.T) {
	lenders := testLenderPanel()
	decisions := evaluateRules(lenders, 600000, 36, 80, nil)
	assert.Equal(t, models.OutcomeApproved, decisions[2].Outcome, "nil industry skips the restriction")
}

func TestBuildOffersAmountClamping(t *testing.T) {
	lenders := testLenderPanel()
	decisions := evaluateRules(lenders, 600000, 36, 80, nil)

	offers := buildOffers(600000, decisions, lenders)
	require.Len(t, offers, 3)

	// revenue * 6 = 3.6M sits inside every lender's range here.
	for _, offer := range offers {
		assert.Equal(t, 3600000.0, offer.ApprovedAmount)
	}
}

func TestBuildOffersRespectsLenderCeiling(t *testing.T) {
	lenders := testLenderPanel()
	decisions := evaluateRules(lenders, 2000000, 36, 80, nil)

	// revenue * 6 = 12M exceeds every ceiling.
	offers := buildOffers(2000000, decisions, lenders)
	require.Len(t, offers, 3)
	assert.Equal(t, 10000000.0, offers[0].ApprovedAmount)
	assert.Equal(t, 5000000.0, offers[1].ApprovedAmount)
	assert.Equal(t, 10000000.0, offers[2].ApprovedAmount)
}

func TestBuildOffersGlobalCap(t *testing.T) {
	lender := &models.Lender{
		ID:              9,
		Name:            "MegaCorp",
		LoanMinAmount:   1000000,
		LoanMaxAmount:   100000000,
		InterestRateMin: 15,
		InterestRateMax: 20,
	}
	decisions := []*models.Decision{{LenderID: 9, Outcome: models.OutcomeApproved}}

	offers := buildOffers(20000000, decisions, []*models.Lender{lender})
	require.Len(t, offers, 1)
	assert.Equal(t, float64(utils.MaxApprovedAmount), offers[0].ApprovedAmount)
}

func TestBuildOffersRaisesToLenderFloor(t *testing.T) {
	lenders := testLenderPanel()
	decisions := []*models.Decision{{LenderID: 3, Outcome: models.OutcomeConditional}}

	// revenue * 6 = 360k is below BizFund Pro's 500k floor.
	offers := buildOffers(60000, decisions, lenders)
	require.Len(t, offers, 1)
	assert.Equal(t, 500000.0, offers[0].ApprovedAmount)
}

func TestBuildOffersSkipsRejections(t *testing.T) {
	lenders := testLenderPanel()
	decisions := []*models.Decision{
		{LenderID: 1, Outcome: models.OutcomeApproved},
		{LenderID: 2, Outcome: models.OutcomeRejected},
	}

	offers := buildOffers(600000, decisions, lenders)
	require.Len(t, offers, 1)
	assert.Equal(t, uint(1), offers[0].LenderID)
}

func TestBuildOffersEMIBounds(t *testing.T) {
	lenders := testLenderPanel()
	decisions := []*models.Decision{{LenderID: 1, Outcome: models.OutcomeApproved}}

	offers := buildOffers(600000, decisions, lenders)
	require.Len(t, offers, 1)

	offer := offers[0]
	assert.Equal(t, utils.OfferTenureMonths, offer.TenureMonths)
	assert.InDelta(t, emi(offer.ApprovedAmount, 0.20/12, 36), offer.EMIMin, 1e-6)
	assert.InDelta(t, emi(offer.ApprovedAmount, 0.12/12, 36), offer.EMIMax, 1e-6)
	// The naming is inverted on purpose: EMIMin carries the max-rate figure.
	assert.Greater(t, offer.EMIMin, offer.EMIMax)
}

func TestEMIDegradesToStraightLine(t *testing.T) {
	assert.Equal(t, 10000.0, emi(360000, 0, 36))
	assert.InDelta(t, 33214.31, emi(1000000, 0.12/12, 36), 1)
}

func TestBuildOffersBadges(t *testing.T) {
	lenders := testLenderPanel()
	decisions := evaluateRules(lenders, 2000000, 36, 80, nil)

	offers := buildOffers(2000000, decisions, lenders)
	require.Len(t, offers, 3)

	// Credable: rate 12 earns Best Rate, amount hits its 10M ceiling.
	assert.True(t, offers[0].Badges.Contains(models.BadgeBestRate))
	assert.True(t, offers[0].Badges.Contains(models.BadgeHighestAmount))

	// QuickCapital: rate 14, amount at its 5M ceiling.
	assert.False(t, offers[1].Badges.Contains(models.BadgeBestRate))
	assert.True(t, offers[1].Badges.Contains(models.BadgeHighestAmount))

	// BizFund Pro: rate 12 also earns Best Rate.
	assert.True(t, offers[2].Badges.Contains(models.BadgeBestRate))
}

func TestBuildOffersFastApprovalFallback(t *testing.T) {
	lender := &models.Lender{
		ID:              4,
		Name:            "GrowthLend",
		LoanMinAmount:   200000,
		LoanMaxAmount:   3000000,
		InterestRateMin: 16,
		InterestRateMax: 24,
	}
	decisions := []*models.Decision{{LenderID: 4, Outcome: models.OutcomeConditional}}

	offers := buildOffers(100000, decisions, []*models.Lender{lender})
	require.Len(t, offers, 1)
	// 600k approved, under 90% of the 3M ceiling and rate above 12, so the
	// lone offer starts at Fast Approval and picks up the global Best Rate.
	assert.Equal(t, models.BadgeList{models.BadgeBestRate, models.BadgeFastApproval}, offers[0].Badges)
	assert.Equal(t, models.ProbabilityHigh, offers[0].ApprovalProbability)
}

func TestBuildOffersGlobalBestRateRetag(t *testing.T) {
	lenders := []*models.Lender{
		{ID: 5, Name: "A", LoanMinAmount: 100000, LoanMaxAmount: 10000000, InterestRateMin: 15, InterestRateMax: 20},
		{ID: 6, Name: "B", LoanMinAmount: 100000, LoanMaxAmount: 10000000, InterestRateMin: 13, InterestRateMax: 18},
	}
	decisions := []*models.Decision{
		{LenderID: 5, Outcome: models.OutcomeApproved},
		{LenderID: 6, Outcome: models.OutcomeApproved},
	}

	offers := buildOffers(300000, decisions, lenders)
	require.Len(t, offers, 2)

	// Neither crosses the 12 percent threshold; the cheapest still gets tagged.
	assert.False(t, offers[0].Badges.Contains(models.BadgeBestRate))
	assert.True(t, offers[1].Badges.Contains(models.BadgeBestRate))

	assert.Equal(t, models.ProbabilityMedium, offers[0].ApprovalProbability)
	assert.Equal(t, models.ProbabilityHigh, offers[1].ApprovalProbability)
}

func TestImprovementTips(t *testing.T) {
	low := improvementTips(40)
	require.Len(t, low, 3)
	assert.Contains(t, low[0], "revenue consistency")

	mid := improvementTips(60)
	require.Len(t, mid, 2)

	high := improvementTips(80)
	require.Len(t, high, 1)
	assert.Contains(t, high[0], "competitive offers")
}
