package repository

import (
	"context"
	"errors"

	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// ApplicationRepositoryImpl implements the ApplicationRepository interface
type ApplicationRepositoryImpl struct {
	*BaseRepository[models.Application, models.ApplicationFilter]
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Application, models.ApplicationFilter](db),
	}
}

// preloaded attaches the relations every pipeline stage reads
func (r *ApplicationRepositoryImpl) preloaded(db *gorm.DB) *gorm.DB {
	return db.Preload("Merchant").
		Preload("Documents").
		Preload("FinancialSummary").
		Preload("EligibilityScore")
}

// ByID retrieves an application with its merchant, documents, and pipeline
// artifacts preloaded
func (r *ApplicationRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Application, error) {
	db := r.getDB(ctx)

	var application models.Application
	err := r.preloaded(db).Last(&application, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &application, nil
}

// ByUUID retrieves an application by UUID
func (r *ApplicationRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Application, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	db := r.getDB(ctx)

	var application models.Application
	err = r.preloaded(db).Where("uuid = ?", parsedUUID).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &application, nil
}

// ByMerchantID retrieves a merchant's applications newest first
func (r *ApplicationRepositoryImpl) ByMerchantID(ctx context.Context, merchantID uint) ([]*models.Application, error) {
	db := r.getDB(ctx)

	var applications []*models.Application
	err := r.preloaded(db).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	return applications, nil
}

// ByFilter retrieves applications matching the filter, newest first, with
// decisions preloaded for the admin views
func (r *ApplicationRepositoryImpl) ByFilter(ctx context.Context, filter models.ApplicationFilter) ([]*models.Application, error) {
	db := r.getDB(ctx)

	query := r.preloaded(db).
		Preload("Decisions").
		Preload("Decisions.Lender").
		Preload("Offers").
		Preload("Offers.Lender").
		Order("created_at DESC")

	if filter.MerchantID != nil {
		query = query.Where("merchant_id = ?", *filter.MerchantID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.LoanType != nil {
		query = query.Where("loan_type = ?", *filter.LoanType)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var applications []*models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}

// Update persists all application fields
func (r *ApplicationRepositoryImpl) Update(ctx context.Context, application models.Application) error {
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
	application.UpdatedAt = &now

	err = db.Omit("Merchant", "Documents", "FinancialSummary", "EligibilityScore", "Decisions", "Offers").
		Save(&application).Error
	if err != nil {
		return err
	}

	return nil
}

// UpdateStatus updates only the status of an application
func (r *ApplicationRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error {
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

	err = db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		}).Error
	if err != nil {
		return err
	}

	return nil
}
