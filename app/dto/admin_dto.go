// Package dto contains Data Transfer Objects for API request and response structures
package dto

// AdminMerchantDTO is one row of the admin merchant directory
type AdminMerchantDTO struct {
	MerchantDTO
	ApplicationCount int64 `json:"application_count" example:"3"`
}

// AdminApplicationListRequest carries the admin application list filters
type AdminApplicationListRequest struct {
	Status   *string `query:"status" validate:"omitempty,oneof=draft submitted processing decision_generated"`
	LoanType *string `query:"loan_type" validate:"omitempty,oneof=working_capital term_loan"`
}

// AdminApplicationDTO is one row of the admin application book
type AdminApplicationDTO struct {
	UUID          string   `json:"uuid"`
	MerchantName  string   `json:"merchant_name"`
	MerchantEmail string   `json:"merchant_email"`
	BusinessName  *string  `json:"business_name,omitempty"`
	Status        string   `json:"status"`
	LoanType      string   `json:"loan_type"`
	RequestedAmount *float64 `json:"requested_amount,omitempty"`
	Score         *int     `json:"score,omitempty"`
	Band          *string  `json:"band,omitempty"`
	DecisionCount int      `json:"decision_count"`
	OfferCount    int      `json:"offer_count"`
	CreatedAt     string   `json:"created_at"`
}
