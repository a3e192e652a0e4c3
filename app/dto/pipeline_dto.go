// Package dto contains Data Transfer Objects for API request and response structures
package dto

// ExtractFinancialsRequest triggers financial extraction for an application
type ExtractFinancialsRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// CalculateScoreRequest triggers eligibility scoring for an application
type CalculateScoreRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// EvaluateLendersRequest triggers lender matching and offer generation
type EvaluateLendersRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid4" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// FinancialSummaryDTO represents extracted financials in API responses
type FinancialSummaryDTO struct {
	AvgMonthlyRevenue   float64 `json:"avg_monthly_revenue" example:"450000"`
	HighestRevenue      float64 `json:"highest_revenue" example:"517500"`
	LowestRevenue       float64 `json:"lowest_revenue" example:"382500"`
	AvgBalance          float64 `json:"avg_balance" example:"180000"`
	RevenueConsistency  string  `json:"revenue_consistency" example:"High"`
	CashFlowVolatility  string  `json:"cash_flow_volatility" example:"Low"`
	TransactionCount    int     `json:"transaction_count" example:"142"`
	NegativeBalanceDays int     `json:"negative_balance_days" example:"0"`
	RiskSummary         *string `json:"risk_summary,omitempty"`
	CreatedAt           string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// FactorBreakdownDTO carries the six normalized scoring factors.
// Tags are camelCase to match the scoring contract consumed by clients.
type FactorBreakdownDTO struct {
	RevenueStrength    float64 `json:"revenueStrength" example:"0.9"`
	RevenueConsistency float64 `json:"revenueConsistency" example:"1"`
	BusinessVintage    float64 `json:"businessVintage" example:"0.8"`
	CashFlowHealth     float64 `json:"cashFlowHealth" example:"1"`
	LoanVsRevenue      float64 `json:"loanVsRevenue" example:"0.7"`
	RiskFlags          float64 `json:"riskFlags" example:"1"`
}

// EligibilityScoreDTO represents the scoring verdict in API responses
type EligibilityScoreDTO struct {
	Score     int                `json:"score" example:"82"`
	Band      string             `json:"band" example:"pre_approved"`
	Factors   FactorBreakdownDTO `json:"factors"`
	Reasoning string             `json:"reasoning"`
	CreatedAt string             `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// DecisionDTO represents one lender's verdict in API responses
type DecisionDTO struct {
	LenderID   uint   `json:"lender_id" example:"1"`
	LenderName string `json:"lender_name" example:"Credable"`
	Outcome    string `json:"outcome" example:"approved"`
	Reason     string `json:"reason"`
}

// OfferDTO represents a loan offer in API responses
type OfferDTO struct {
	LenderID            uint     `json:"lender_id" example:"1"`
	LenderName          string   `json:"lender_name" example:"Credable"`
	ApprovedAmount      float64  `json:"approved_amount" example:"2700000"`
	InterestRateMin     float64  `json:"interest_rate_min" example:"12"`
	InterestRateMax     float64  `json:"interest_rate_max" example:"20"`
	TenureMonths        int      `json:"tenure_months" example:"36"`
	EMIMin              float64  `json:"emi_min" example:"98765.43"`
	EMIMax              float64  `json:"emi_max" example:"89678.21"`
	ApprovalProbability string   `json:"approval_probability" example:"High"`
	Badges              []string `json:"badges" example:"Best Rate"`
}

// DecisionExplanationDTO explains the overall decision to the merchant
type DecisionExplanationDTO struct {
	Score           int           `json:"score" example:"82"`
	Band            string        `json:"band" example:"pre_approved"`
	Reasoning       string        `json:"reasoning"`
	ImprovementTips []string      `json:"improvement_tips"`
	LenderOutcomes  []DecisionDTO `json:"lender_outcomes"`
}
