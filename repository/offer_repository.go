package repository

import (
	"context"

	"github.com/lendwise/lendwise/models"
	"gorm.io/gorm"
)

// OfferRepositoryImpl implements the OfferRepository interface
type OfferRepositoryImpl struct {
	*BaseRepository[models.Offer, models.OfferFilter]
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &OfferRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Offer, models.OfferFilter](db),
	}
}

// ByApplicationID retrieves all offers for an application with lenders
// preloaded, cheapest minimum rate first.
func (r *OfferRepositoryImpl) ByApplicationID(ctx context.Context, applicationID uint) ([]*models.Offer, error) {
	db := r.getDB(ctx)

	var offers []*models.Offer
	err := db.Preload("Lender").
		Where("application_id = ?", applicationID).
		Order("interest_rate_min ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}

	return offers, nil
}

// ReplaceForApplication drops the prior offer set for the application and
// inserts the new one
func (r *OfferRepositoryImpl) ReplaceForApplication(ctx context.Context, applicationID uint, offers []*models.Offer) error {
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
		Delete(&models.Offer{}).Error
	if err != nil {
		return err
	}

	if len(offers) == 0 {
		return nil
	}

	for _, offer := range offers {
		offer.ApplicationID = applicationID
	}
	err = db.CreateInBatches(offers, 100).Error
	if err != nil {
		return err
	}

	return nil
}
