package repository

import (
	"context"

	"github.com/lendwise/lendwise/models"
	"gorm.io/gorm"
)

// DecisionRepositoryImpl implements the DecisionRepository interface
type DecisionRepositoryImpl struct {
	*BaseRepository[models.Decision, models.DecisionFilter]
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &DecisionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Decision, models.DecisionFilter](db),
	}
}

// ByApplicationID retrieves all decisions for an application with lenders preloaded
func (r *DecisionRepositoryImpl) ByApplicationID(ctx context.Context, applicationID uint) ([]*models.Decision, error) {
	db := r.getDB(ctx)

	var decisions []*models.Decision
	err := db.Preload("Lender").
		Where("application_id = ?", applicationID).
		Order("id ASC").
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}

	return decisions, nil
}

// QualifyingByApplicationID retrieves the approved and conditional decisions
// for an application, the subset that yields offers.
func (r *DecisionRepositoryImpl) QualifyingByApplicationID(ctx context.Context, applicationID uint) ([]*models.Decision, error) {
	db := r.getDB(ctx)

	var decisions []*models.Decision
	err := db.Preload("Lender").
		Where("application_id = ? AND outcome IN ?", applicationID,
			[]models.DecisionOutcome{models.OutcomeApproved, models.OutcomeConditional}).
		Order("id ASC").
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}

	return decisions, nil
}

// ReplaceForApplication drops the prior decision set for the application and
// inserts the new one. Evaluation runs are idempotent over this call.
func (r *DecisionRepositoryImpl) ReplaceForApplication(ctx context.Context, applicationID uint, decisions []*models.Decision) error {
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
		Delete(&models.Decision{}).Error
	if err != nil {
		return err
	}

	if len(decisions) == 0 {
		return nil
	}

	for _, decision := range decisions {
		decision.ApplicationID = applicationID
	}
	err = db.CreateInBatches(decisions, 100).Error
	if err != nil {
		return err
	}

	return nil
}
