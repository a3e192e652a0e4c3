// Package dto contains Data Transfer Objects for API request and response structures
package dto

// MerchantDTO represents a merchant account in API responses
type MerchantDTO struct {
	ID                uint     `json:"id" example:"123"`
	UUID              string   `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email             string   `json:"email" example:"owner@store.com"`
	Name              string   `json:"name" example:"Asha Patel"`
	Phone             *string  `json:"phone,omitempty" example:"+919876543210"`
	Role              string   `json:"role" example:"merchant"`
	BusinessName      *string  `json:"business_name,omitempty" example:"Patel Trading Co"`
	Industry          *string  `json:"industry,omitempty" example:"Retail"`
	City              *string  `json:"city,omitempty" example:"Mumbai"`
	BusinessAgeMonths int      `json:"business_age_months" example:"24"`
	MonthlyRevenue    *float64 `json:"monthly_revenue,omitempty" example:"450000"`
	CreatedAt         string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// UpdateMerchantRequest represents the request to update the merchant's business profile
type UpdateMerchantRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Phone             *string  `json:"phone,omitempty" validate:"omitempty,min=10,max=20"`
	BusinessName      *string  `json:"business_name,omitempty" validate:"omitempty,min=2,max=255"`
	Industry          *string  `json:"industry,omitempty" validate:"omitempty,min=2,max=100"`
	City              *string  `json:"city,omitempty" validate:"omitempty,min=2,max=100"`
	BusinessAgeMonths *int     `json:"business_age_months,omitempty" validate:"omitempty,gte=0,lte=1200"`
	MonthlyRevenue    *float64 `json:"monthly_revenue,omitempty" validate:"omitempty,gt=0"`
}

// HasUpdates reports whether at least one field is present
func (r *UpdateMerchantRequest) HasUpdates() bool {
	return r.Name != nil || r.Phone != nil || r.BusinessName != nil ||
		r.Industry != nil || r.City != nil || r.BusinessAgeMonths != nil ||
		r.MonthlyRevenue != nil
}
