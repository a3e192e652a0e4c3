// Package dto contains Data Transfer Objects for API request and response structures
package dto

// CreateApplicationRequest represents the request to open a new loan application
type CreateApplicationRequest struct {
	LoanType        string   `json:"loan_type" validate:"required,oneof=working_capital term_loan" example:"working_capital"`
	RequestedAmount *float64 `json:"requested_amount,omitempty" validate:"omitempty,gt=0" example:"1500000"`
}

// UpdateApplicationRequest represents the request to update a draft application.
// Business profile fields are routed to the merchant record.
type UpdateApplicationRequest struct {
	LoanType        *string  `json:"loan_type,omitempty" validate:"omitempty,oneof=working_capital term_loan"`
	RequestedAmount *float64 `json:"requested_amount,omitempty" validate:"omitempty,gt=0"`

	BusinessName      *string  `json:"business_name,omitempty" validate:"omitempty,min=2,max=255"`
	Industry          *string  `json:"industry,omitempty" validate:"omitempty,min=2,max=100"`
	City              *string  `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	BusinessAgeMonths *int     `json:"business_age_months,omitempty" validate:"omitempty,gte=0,lte=1200"`
	MonthlyRevenue    *float64 `json:"monthly_revenue,omitempty" validate:"omitempty,gt=0"`
}

// HasUpdates reports whether at least one field is present
func (r *UpdateApplicationRequest) HasUpdates() bool {
	return r.LoanType != nil || r.RequestedAmount != nil || r.BusinessName != nil ||
		r.Industry != nil || r.City != nil || r.BusinessAgeMonths != nil ||
		r.MonthlyRevenue != nil
}

// ApplicationDTO represents a loan application in API responses
type ApplicationDTO struct {
	ID               uint                  `json:"id" example:"42"`
	UUID             string                `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Status           string                `json:"status" example:"draft"`
	LoanType         string                `json:"loan_type" example:"working_capital"`
	RequestedAmount  *float64              `json:"requested_amount,omitempty" example:"1500000"`
	CreatedAt        string                `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt        *string               `json:"updated_at,omitempty"`
	Documents        []DocumentDTO         `json:"documents,omitempty"`
	FinancialSummary *FinancialSummaryDTO  `json:"financial_summary,omitempty"`
	EligibilityScore *EligibilityScoreDTO  `json:"eligibility_score,omitempty"`
	Decisions        []DecisionDTO         `json:"decisions,omitempty"`
	Offers           []OfferDTO            `json:"offers,omitempty"`
}

// ApplicationListItemDTO is the compact shape used in list responses
type ApplicationListItemDTO struct {
	UUID            string   `json:"uuid"`
	Status          string   `json:"status"`
	LoanType        string   `json:"loan_type"`
	RequestedAmount *float64 `json:"requested_amount,omitempty"`
	Score           *int     `json:"score,omitempty"`
	Band            *string  `json:"band,omitempty"`
	OfferCount      int      `json:"offer_count"`
	CreatedAt       string   `json:"created_at"`
}

// Common error codes for application operations
const (
	ErrorApplicationNotFound     = "APPLICATION_NOT_FOUND"
	ErrorNotApplicationOwner     = "NOT_APPLICATION_OWNER"
	ErrorApplicationNotDraft     = "APPLICATION_NOT_DRAFT"
	ErrorApplicationNotEditable  = "APPLICATION_NOT_EDITABLE"
	ErrorBankStatementRequired   = "BANK_STATEMENT_REQUIRED"
	ErrorFinancialsMissing       = "FINANCIALS_MISSING"
	ErrorScoreMissing            = "SCORE_MISSING"
)
