package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    ApplicationStatus
		to      ApplicationStatus
		allowed bool
	}{
		{"draft to submitted", ApplicationStatusDraft, ApplicationStatusSubmitted, true},
		{"draft to processing", ApplicationStatusDraft, ApplicationStatusProcessing, true},
		{"submitted to processing", ApplicationStatusSubmitted, ApplicationStatusProcessing, true},
		{"processing to decision", ApplicationStatusProcessing, ApplicationStatusDecisionGenerated, true},
		{"same status is allowed", ApplicationStatusProcessing, ApplicationStatusProcessing, true},
		{"decision stays terminal forward", ApplicationStatusDecisionGenerated, ApplicationStatusDecisionGenerated, true},
		{"submitted back to draft", ApplicationStatusSubmitted, ApplicationStatusDraft, false},
		{"decision back to processing", ApplicationStatusDecisionGenerated, ApplicationStatusProcessing, false},
		{"unknown source", ApplicationStatus("unknown"), ApplicationStatusSubmitted, false},
		{"unknown target", ApplicationStatusDraft, ApplicationStatus("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApplicationIsEditable(t *testing.T) {
	app := &Application{Status: ApplicationStatusDraft}
	assert.True(t, app.IsEditable())

	for _, status := range []ApplicationStatus{
		ApplicationStatusSubmitted,
		ApplicationStatusProcessing,
		ApplicationStatusDecisionGenerated,
	} {
		app.Status = status
		assert.False(t, app.IsEditable(), "status %s should not be editable", status)
	}
}

func TestApplicationBankStatement(t *testing.T) {
	app := &Application{
		Documents: []Document{
			{ID: 1, Type: DocumentTypeGSTReturn},
			{ID: 2, Type: DocumentTypeBankStatement},
			{ID: 3, Type: DocumentTypeBankStatement},
		},
	}

	assert.True(t, app.HasBankStatement())
	statement := app.BankStatement()
	require.NotNil(t, statement)
	assert.Equal(t, uint(2), statement.ID)

	empty := &Application{Documents: []Document{{Type: DocumentTypeGSTReturn}}}
	assert.False(t, empty.HasBankStatement())
	assert.Nil(t, empty.BankStatement())
}

func TestBandForScore(t *testing.T) {
	assert.Equal(t, BandPreApproved, BandForScore(100))
	assert.Equal(t, BandPreApproved, BandForScore(75))
	assert.Equal(t, BandConditional, BandForScore(74))
	assert.Equal(t, BandConditional, BandForScore(55))
	assert.Equal(t, BandRejected, BandForScore(54))
	assert.Equal(t, BandRejected, BandForScore(0))
}

func TestConsistencyInverse(t *testing.T) {
	assert.Equal(t, ConsistencyLow, ConsistencyHigh.Inverse())
	assert.Equal(t, ConsistencyHigh, ConsistencyLow.Inverse())
	assert.Equal(t, ConsistencyMedium, ConsistencyMedium.Inverse())
}

func TestFinancialSummaryValidate(t *testing.T) {
	valid := &FinancialSummary{
		AvgMonthlyRevenue:  400000,
		HighestRevenue:     500000,
		LowestRevenue:      300000,
		RevenueConsistency: ConsistencyHigh,
		CashFlowVolatility: ConsistencyLow,
	}
	require.NoError(t, valid.Validate())

	ordering := *valid
	ordering.LowestRevenue = 450000
	assert.Error(t, ordering.Validate())

	mirror := *valid
	mirror.CashFlowVolatility = ConsistencyHigh
	assert.Error(t, mirror.Validate())

	labels := *valid
	labels.RevenueConsistency = "Extreme"
	assert.Error(t, labels.Validate())
}

func TestIndustryListAllows(t *testing.T) {
	var open IndustryList
	assert.True(t, open.Allows("Retail"), "empty list allows every industry")

	restricted := IndustryList{"Retail", "Manufacturing"}
	assert.True(t, restricted.Allows("Retail"))
	assert.False(t, restricted.Allows("Hospitality"))
}

func TestDecisionOutcomeQualifies(t *testing.T) {
	assert.True(t, OutcomeApproved.Qualifies())
	assert.True(t, OutcomeConditional.Qualifies())
	assert.False(t, OutcomeRejected.Qualifies())
}

func TestBadgeListContains(t *testing.T) {
	badges := BadgeList{BadgeBestRate, BadgeFastApproval}
	assert.True(t, badges.Contains(BadgeBestRate))
	assert.False(t, badges.Contains(BadgeHighestAmount))
}

func TestMerchantRole(t *testing.T) {
	assert.True(t, RoleMerchant.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, MerchantRole("root").Valid())

	admin := &Merchant{Role: RoleAdmin}
	assert.True(t, admin.IsAdmin())
	merchant := &Merchant{Role: RoleMerchant}
	assert.False(t, merchant.IsAdmin())
}

func TestMerchantDeclaredMonthlyRevenue(t *testing.T) {
	m := &Merchant{}
	assert.Zero(t, m.DeclaredMonthlyRevenue())

	revenue := 350000.0
	m.MonthlyRevenue = &revenue
	assert.Equal(t, 350000.0, m.DeclaredMonthlyRevenue())
}
