package repository

import (
	"context"
	"errors"

	"github.com/lendwise/lendwise/models"
	"gorm.io/gorm"
)

// LenderRepositoryImpl implements the LenderRepository interface
type LenderRepositoryImpl struct {
	*BaseRepository[models.Lender, models.LenderFilter]
}

// NewLenderRepository creates a new lender repository
func NewLenderRepository(db *gorm.DB) LenderRepository {
	return &LenderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Lender, models.LenderFilter](db),
	}
}

// BySlug retrieves a lender by its slug, nil if not found
func (r *LenderRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Lender, error) {
	db := r.getDB(ctx)

	var lender models.Lender
	err := db.Where("slug = ?", slug).First(&lender).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &lender, nil
}

// Active retrieves all active lenders ordered by name
func (r *LenderRepositoryImpl) Active(ctx context.Context) ([]*models.Lender, error) {
	db := r.getDB(ctx)

	var lenders []*models.Lender
	err := db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&lenders).Error
	if err != nil {
		return nil, err
	}

	return lenders, nil
}
