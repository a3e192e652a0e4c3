package businessflow

import (
	"math"
	"strings"
	"testing"

	"github.com/lendwise/lendwise/models"
	"github.com/stretchr/testify/assert"
)

func TestScoreRevenueStrength(t *testing.T) {
	tests := []struct {
		name    string
		revenue float64
		want    float64
	}{
		{"top tier", 1_200_000, 1},
		{"exactly one million", 1_000_000, 1},
		{"half million tier", 600_000, 0.85},
		{"two lakh tier", 250_000, 0.7},
		{"one lakh tier", 150_000, 0.5},
		{"below one lakh scales linearly", 50_000, 0.5},
		{"zero revenue", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scoreRevenueStrength(tt.revenue), 1e-9)
		})
	}
}

func TestScoreConsistency(t *testing.T) {
	assert.Equal(t, 1.0, scoreConsistency(models.ConsistencyHigh))
	assert.Equal(t, 0.65, scoreConsistency(models.ConsistencyMedium))
	assert.Equal(t, 0.35, scoreConsistency(models.ConsistencyLow))
}

func TestScoreVintage(t *testing.T) {
	assert.Equal(t, 1.0, scoreVintage(48))
	assert.Equal(t, 1.0, scoreVintage(36))
	assert.Equal(t, 0.85, scoreVintage(24))
	assert.Equal(t, 0.65, scoreVintage(12))
	assert.Equal(t, 0.45, scoreVintage(6))
	assert.InDelta(t, 0.5, scoreVintage(3), 1e-9)
	assert.Equal(t, 0.0, scoreVintage(0))
}

func TestScoreCashFlow(t *testing.T) {
	// Large balance, clean history, low volatility saturates at 1.
	assert.Equal(t, 1.0, scoreCashFlow(300_000, 0, models.ConsistencyLow))

	// Modest balance with a couple of negative days.
	assert.InDelta(t, 0.7, scoreCashFlow(100_000, 2, models.ConsistencyMedium), 1e-9)

	// High volatility with many negative days floors fast.
	assert.InDelta(t, 0.3, scoreCashFlow(10_000, 10, models.ConsistencyHigh), 1e-9)
}

func TestScoreLoanVsRevenue(t *testing.T) {
	assert.Equal(t, 1.0, scoreLoanVsRevenue(900_000, 300_000))
	assert.Equal(t, 0.8, scoreLoanVsRevenue(1_500_000, 300_000))
	assert.Equal(t, 0.5, scoreLoanVsRevenue(3_000_000, 300_000))
	assert.Equal(t, 0.3, scoreLoanVsRevenue(5_000_000, 300_000))
	assert.Equal(t, 0.5, scoreLoanVsRevenue(1_000_000, 0), "unknown revenue is neutral")
}

func TestScoreRiskFlags(t *testing.T) {
	assert.Equal(t, 1.0, scoreRiskFlags(0, models.ConsistencyHigh))
	assert.Equal(t, 0.6, scoreRiskFlags(2, models.ConsistencyHigh))
	assert.Equal(t, 0.6, scoreRiskFlags(0, models.ConsistencyLow))
	assert.Equal(t, 0.2, scoreRiskFlags(6, models.ConsistencyHigh))
}

func TestWeightedScoreComposition(t *testing.T) {
	// A strong profile lands in the pre-approved band.
	factors := models.FactorBreakdown{
		RevenueStrength:    scoreRevenueStrength(550_000),
		RevenueConsistency: scoreConsistency(models.ConsistencyHigh),
		BusinessVintage:    scoreVintage(30),
		CashFlowHealth:     scoreCashFlow(250_000, 0, models.ConsistencyLow),
		LoanVsRevenue:      scoreLoanVsRevenue(1_500_000, 550_000),
		RiskFlags:          scoreRiskFlags(0, models.ConsistencyHigh),
	}

	raw := factors.RevenueStrength*weightRevenueStrength +
		factors.RevenueConsistency*weightRevenueConsistency +
		factors.BusinessVintage*weightBusinessVintage +
		factors.CashFlowHealth*weightCashFlowHealth +
		factors.LoanVsRevenue*weightLoanVsRevenue +
		factors.RiskFlags*weightRiskFlags

	score := int(math.Round(raw * 100))
	assert.GreaterOrEqual(t, score, 75)
	assert.Equal(t, models.BandPreApproved, models.BandForScore(score))
}

func TestFactorWeightsSumToOne(t *testing.T) {
	sum := weightRevenueStrength + weightRevenueConsistency + weightBusinessVintage +
		weightCashFlowHealth + weightLoanVsRevenue + weightRiskFlags
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBuildReasoning(t *testing.T) {
	strong := models.FactorBreakdown{
		RevenueStrength:    0.85,
		RevenueConsistency: 1,
		CashFlowHealth:     0.9,
	}
	reasoning := buildReasoning(models.BandPreApproved, strong)
	assert.Contains(t, reasoning, "Strong revenue level")
	assert.Contains(t, reasoning, "Stable revenue pattern")
	assert.Contains(t, reasoning, "Healthy cash flow")
	assert.Contains(t, reasoning, "Meets criteria for pre-approval.")

	weak := models.FactorBreakdown{
		RevenueStrength:    0.3,
		RevenueConsistency: 0.35,
		CashFlowHealth:     0.4,
	}
	reasoning = buildReasoning(models.BandRejected, weak)
	assert.Contains(t, reasoning, "Revenue below typical thresholds")
	assert.Contains(t, reasoning, "Inconsistent revenue")
	assert.Contains(t, reasoning, "Cash flow needs improvement")
	assert.Contains(t, reasoning, "Overall eligibility below minimum")

	conditional := buildReasoning(models.BandConditional, models.FactorBreakdown{
		RevenueStrength:    0.6,
		RevenueConsistency: 0.65,
		CashFlowHealth:     0.6,
	})
	assert.True(t, strings.HasSuffix(conditional, "Strengthening revenue consistency may improve terms."))
}
