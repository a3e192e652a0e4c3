package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// MerchantWithApplicationCount joins a merchant row with its application count
// for the admin directory.
type MerchantWithApplicationCount struct {
	models.Merchant
	ApplicationCount int64 `json:"application_count"`
}

// MerchantRepositoryImpl implements the MerchantRepository interface
type MerchantRepositoryImpl struct {
	*BaseRepository[models.Merchant, models.MerchantFilter]
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &MerchantRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Merchant, models.MerchantFilter](db),
	}
}

// ByUUID retrieves a merchant by UUID
func (r *MerchantRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Merchant, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)

	var merchant models.Merchant
	err = db.Where("uuid = ?", parsedUUID).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &merchant, nil
}

// ByEmail retrieves a merchant by email (stored lowercased)
func (r *MerchantRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	db := r.getDB(ctx)

	var merchant models.Merchant
	err := db.Where("email = ?", strings.ToLower(email)).First(&merchant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &merchant, nil
}

// Update persists all merchant fields
func (r *MerchantRepositoryImpl) Update(ctx context.Context, merchant models.Merchant) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	merchant.UpdatedAt = &now

	err = db.Save(&merchant).Error
	if err != nil {
		return err
	}

	return nil
}

// ListMerchants returns merchant-role accounts newest first, optionally
// filtered by a case-insensitive name/email search, each with its
// application count.
func (r *MerchantRepositoryImpl) ListMerchants(ctx context.Context, search string) ([]*MerchantWithApplicationCount, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Merchant{}).
		Select("merchants.*, COUNT(applications.id) AS application_count").
		Joins("LEFT JOIN applications ON applications.merchant_id = merchants.id").
		Where("merchants.role = ?", models.RoleMerchant).
		Group("merchants.id").
		Order("merchants.created_at DESC")

	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + s + "%"
		query = query.Where("merchants.name ILIKE ? OR merchants.email ILIKE ?", pattern, pattern)
	}

	var rows []*MerchantWithApplicationCount
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
