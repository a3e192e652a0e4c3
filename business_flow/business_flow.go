// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"time"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for logging and tracing
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToMerchantDTO converts a merchant model to its API representation
func ToMerchantDTO(merchant models.Merchant) dto.MerchantDTO {
	return dto.MerchantDTO{
		ID:                merchant.ID,
		UUID:              merchant.UUID.String(),
		Email:             merchant.Email,
		Name:              merchant.Name,
		Phone:             merchant.Phone,
		Role:              merchant.Role.String(),
		BusinessName:      merchant.BusinessName,
		Industry:          merchant.Industry,
		City:              merchant.City,
		BusinessAgeMonths: merchant.BusinessAgeMonths,
		MonthlyRevenue:    merchant.MonthlyRevenue,
		CreatedAt:         merchant.CreatedAt.Format(time.RFC3339),
	}
}

// ToDocumentDTO converts a document model to its API representation
func ToDocumentDTO(document models.Document) dto.DocumentDTO {
	return dto.DocumentDTO{
		ID:           document.ID,
		UUID:         document.UUID.String(),
		DocumentType: string(document.Type),
		FileName:     document.FileName,
		MimeType:     document.MimeType,
		SizeBytes:    document.SizeBytes,
		CreatedAt:    document.CreatedAt.Format(time.RFC3339),
	}
}

// ToFinancialSummaryDTO converts a financial summary model to its API representation
func ToFinancialSummaryDTO(summary models.FinancialSummary) dto.FinancialSummaryDTO {
	return dto.FinancialSummaryDTO{
		AvgMonthlyRevenue:   summary.AvgMonthlyRevenue,
		HighestRevenue:      summary.HighestRevenue,
		LowestRevenue:       summary.LowestRevenue,
		AvgBalance:          summary.AvgBalance,
		RevenueConsistency:  string(summary.RevenueConsistency),
		CashFlowVolatility:  string(summary.CashFlowVolatility),
		TransactionCount:    summary.TransactionCount,
		NegativeBalanceDays: summary.NegativeBalanceDays,
		RiskSummary:         summary.RiskSummary,
		CreatedAt:           summary.CreatedAt.Format(time.RFC3339),
	}
}

// ToEligibilityScoreDTO converts an eligibility score model to its API representation
func ToEligibilityScoreDTO(score models.EligibilityScore) dto.EligibilityScoreDTO {
	return dto.EligibilityScoreDTO{
		Score: score.Score,
		Band:  string(score.Band),
		Factors: dto.FactorBreakdownDTO{
			RevenueStrength:    score.FactorBreakdown.RevenueStrength,
			RevenueConsistency: score.FactorBreakdown.RevenueConsistency,
			BusinessVintage:    score.FactorBreakdown.BusinessVintage,
			CashFlowHealth:     score.FactorBreakdown.CashFlowHealth,
			LoanVsRevenue:      score.FactorBreakdown.LoanVsRevenue,
			RiskFlags:          score.FactorBreakdown.RiskFlags,
		},
		Reasoning: score.Reasoning,
		CreatedAt: score.CreatedAt.Format(time.RFC3339),
	}
}

// ToDecisionDTO converts a decision model to its API representation
func ToDecisionDTO(decision models.Decision) dto.DecisionDTO {
	d := dto.DecisionDTO{
		LenderID: decision.LenderID,
		Outcome:  string(decision.Outcome),
		Reason:   decision.Reason,
	}
	if decision.Lender != nil {
		d.LenderName = decision.Lender.Name
	}
	return d
}

// ToOfferDTO converts an offer model to its API representation
func ToOfferDTO(offer models.Offer) dto.OfferDTO {
	o := dto.OfferDTO{
		LenderID:            offer.LenderID,
		ApprovedAmount:      offer.ApprovedAmount,
		InterestRateMin:     offer.InterestRateMin,
		InterestRateMax:     offer.InterestRateMax,
		TenureMonths:        offer.TenureMonths,
		EMIMin:              offer.EMIMin,
		EMIMax:              offer.EMIMax,
		ApprovalProbability: string(offer.ApprovalProbability),
		Badges:              offer.Badges,
	}
	if o.Badges == nil {
		o.Badges = []string{}
	}
	if offer.Lender != nil {
		o.LenderName = offer.Lender.Name
	}
	return o
}

// ToApplicationDTO converts an application model with its loaded relations
// to its API representation
func ToApplicationDTO(application models.Application) dto.ApplicationDTO {
	d := dto.ApplicationDTO{
		ID:              application.ID,
		UUID:            application.UUID.String(),
		Status:          application.Status.String(),
		LoanType:        string(application.LoanType),
		RequestedAmount: application.RequestedAmount,
		CreatedAt:       application.CreatedAt.Format(time.RFC3339),
	}

	if application.UpdatedAt != nil {
		updatedAt := application.UpdatedAt.Format(time.RFC3339)
		d.UpdatedAt = &updatedAt
	}

	for _, document := range application.Documents {
		d.Documents = append(d.Documents, ToDocumentDTO(document))
	}

	if application.FinancialSummary != nil {
		summary := ToFinancialSummaryDTO(*application.FinancialSummary)
		d.FinancialSummary = &summary
	}

	if application.EligibilityScore != nil {
		score := ToEligibilityScoreDTO(*application.EligibilityScore)
		d.EligibilityScore = &score
	}

	for _, decision := range application.Decisions {
		d.Decisions = append(d.Decisions, ToDecisionDTO(decision))
	}

	for _, offer := range application.Offers {
		d.Offers = append(d.Offers, ToOfferDTO(offer))
	}

	return d
}

// ToApplicationListItemDTO converts an application model to its compact list representation
func ToApplicationListItemDTO(application models.Application) dto.ApplicationListItemDTO {
	d := dto.ApplicationListItemDTO{
		UUID:            application.UUID.String(),
		Status:          application.Status.String(),
		LoanType:        string(application.LoanType),
		RequestedAmount: application.RequestedAmount,
		OfferCount:      len(application.Offers),
		CreatedAt:       application.CreatedAt.Format(time.RFC3339),
	}

	if application.EligibilityScore != nil {
		score := application.EligibilityScore.Score
		band := string(application.EligibilityScore.Band)
		d.Score = &score
		d.Band = &band
	}

	return d
}
