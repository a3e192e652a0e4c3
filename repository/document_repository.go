package repository

import (
	"context"

	"github.com/lendwise/lendwise/models"
	"gorm.io/gorm"
)

// DocumentRepositoryImpl implements the DocumentRepository interface
type DocumentRepositoryImpl struct {
	*BaseRepository[models.Document, models.DocumentFilter]
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &DocumentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Document, models.DocumentFilter](db),
	}
}

// ByApplicationID retrieves all documents attached to an application
func (r *DocumentRepositoryImpl) ByApplicationID(ctx context.Context, applicationID uint) ([]*models.Document, error) {
	db := r.getDB(ctx)

	var documents []*models.Document
	err := db.Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&documents).Error
	if err != nil {
		return nil, err
	}

	return documents, nil
}
