package repository

import (
	"context"
	"errors"

	"github.com/lendwise/lendwise/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EligibilityScoreRepositoryImpl implements the EligibilityScoreRepository interface
type EligibilityScoreRepositoryImpl struct {
	*BaseRepository[models.EligibilityScore, models.EligibilityScoreFilter]
}

// NewEligibilityScoreRepository creates a new eligibility score repository
func NewEligibilityScoreRepository(db *gorm.DB) EligibilityScoreRepository {
	return &EligibilityScoreRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EligibilityScore, models.EligibilityScoreFilter](db),
	}
}

// ByApplicationID retrieves the current score for an application, nil if none
func (r *EligibilityScoreRepositoryImpl) ByApplicationID(ctx context.Context, applicationID uint) (*models.EligibilityScore, error) {
	db := r.getDB(ctx)

	var score models.EligibilityScore
	err := db.Where("application_id = ?", applicationID).First(&score).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &score, nil
}

// Upsert inserts the score or overwrites the existing row for the same
// application. Rescoring after a fresh extraction replaces prior results.
func (r *EligibilityScoreRepositoryImpl) Upsert(ctx context.Context, score *models.EligibilityScore) error {
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

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "application_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "band", "reasoning", "factor_breakdown", "updated_at",
		}),
	}).Create(score).Error
	if err != nil {
		return err
	}

	return nil
}
