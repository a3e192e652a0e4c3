// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"context"

	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// MerchantFlow handles merchant profile reads and updates
type MerchantFlow interface {
	GetProfile(ctx context.Context, merchantID uint) (*dto.MerchantDTO, error)
	UpdateProfile(ctx context.Context, merchantID uint, req *dto.UpdateMerchantRequest, metadata *ClientMetadata) (*dto.MerchantDTO, error)
}

// MerchantFlowImpl implements the merchant profile business flow
type MerchantFlowImpl struct {
	merchantRepo repository.MerchantRepository
	db           *gorm.DB
}

// NewMerchantFlow creates a new merchant flow instance
func NewMerchantFlow(merchantRepo repository.MerchantRepository, db *gorm.DB) MerchantFlow {
	return &MerchantFlowImpl{
		merchantRepo: merchantRepo,
		db:           db,
	}
}

// GetProfile returns the authenticated merchant's profile
func (f *MerchantFlowImpl) GetProfile(ctx context.Context, merchantID uint) (*dto.MerchantDTO, error) {
	merchant, err := f.merchantRepo.ByID(ctx, merchantID)
	if err != nil {
		return nil, NewBusinessError("GET_PROFILE_FAILED", "Failed to load profile", err)
	}
	if merchant == nil {
		return nil, NewBusinessError("MERCHANT_NOT_FOUND", "Merchant not found", ErrMerchantNotFound)
	}

	profile := ToMerchantDTO(*merchant)
	return &profile, nil
}

// UpdateProfile applies the provided business profile fields
func (f *MerchantFlowImpl) UpdateProfile(ctx context.Context, merchantID uint, req *dto.UpdateMerchantRequest, metadata *ClientMetadata) (*dto.MerchantDTO, error) {
	if !req.HasUpdates() {
		return nil, NewBusinessError("UPDATE_REQUIRED", "At least one field must be provided", ErrUpdateRequired)
	}

	merchant, err := f.merchantRepo.ByID(ctx, merchantID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_PROFILE_FAILED", "Failed to update profile", err)
	}
	if merchant == nil {
		return nil, NewBusinessError("MERCHANT_NOT_FOUND", "Merchant not found", ErrMerchantNotFound)
	}

	if req.Name != nil {
		merchant.Name = *req.Name
	}
	if req.Phone != nil {
		merchant.Phone = req.Phone
	}
	if req.BusinessName != nil {
		merchant.BusinessName = req.BusinessName
	}
	if req.Industry != nil {
		merchant.Industry = req.Industry
	}
	if req.City != nil {
		merchant.City = req.City
	}
	if req.BusinessAgeMonths != nil {
		merchant.BusinessAgeMonths = *req.BusinessAgeMonths
	}
	if req.MonthlyRevenue != nil {
		merchant.MonthlyRevenue = req.MonthlyRevenue
	}
	merchant.UpdatedAt = utils.UTCNowPtr()

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.merchantRepo.Update(txCtx, *merchant)
	})
	if err != nil {
		return nil, NewBusinessError("UPDATE_PROFILE_FAILED", "Failed to update profile", err)
	}

	profile := ToMerchantDTO(*merchant)
	return &profile, nil
}
