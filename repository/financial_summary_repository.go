package repository

import (
	"context"
	"errors"

	"github.com/lendwise/lendwise/models"
	"gorm.io/gorm"
)

// FinancialSummaryRepositoryImpl implements the FinancialSummaryRepository interface
type FinancialSummaryRepositoryImpl struct {
	*BaseRepository[models.FinancialSummary, models.FinancialSummaryFilter]
}

// NewFinancialSummaryRepository creates a new financial summary repository
func NewFinancialSummaryRepository(db *gorm.DB) FinancialSummaryRepository {
	return &FinancialSummaryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FinancialSummary, models.FinancialSummaryFilter](db),
	}
}

// ByApplicationID retrieves the live summary for an application, nil if none
func (r *FinancialSummaryRepositoryImpl) ByApplicationID(ctx context.Context, applicationID uint) (*models.FinancialSummary, error) {
	db := r.getDB(ctx)

	var summary models.FinancialSummary
	err := db.Where("application_id = ?", applicationID).First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &summary, nil
}

// ReplaceForApplication deletes any prior summary for the application and
// inserts the new one in a single transaction.
func (r *FinancialSummaryRepositoryImpl) ReplaceForApplication(ctx context.Context, applicationID uint, summary *models.FinancialSummary) error {
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

	err = db.Where("application_id = ?", applicationID).
		Delete(&models.FinancialSummary{}).Error
	if err != nil {
		return err
	}

	summary.ApplicationID = applicationID
	err = db.Create(summary).Error
	if err != nil {
		return err
	}

	return nil
}
