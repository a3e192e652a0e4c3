// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/lendwise/lendwise/app/dto"
	"github.com/lendwise/lendwise/models"
	"github.com/lendwise/lendwise/repository"
	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// DocumentUpload carries an incoming file from the transport layer
type DocumentUpload struct {
	DocumentType string
	FileName     string
	MimeType     string
	SizeBytes    int64
	Content      io.Reader
}

// DocumentFlow handles document uploads and listing for an application
type DocumentFlow interface {
	Upload(ctx context.Context, merchantID uint, applicationUUID string, upload *DocumentUpload, metadata *ClientMetadata) (*dto.DocumentDTO, error)
	List(ctx context.Context, merchantID uint, applicationUUID string) ([]dto.DocumentDTO, error)
}

// DocumentFlowImpl implements the document business flow
type DocumentFlowImpl struct {
	documentRepo    repository.DocumentRepository
	applicationRepo repository.ApplicationRepository
	storageDir      string
	db              *gorm.DB
}

// NewDocumentFlow creates a new document flow instance
func NewDocumentFlow(
	documentRepo repository.DocumentRepository,
	applicationRepo repository.ApplicationRepository,
	storageDir string,
	db *gorm.DB,
) DocumentFlow {
	return &DocumentFlowImpl{
		documentRepo:    documentRepo,
		applicationRepo: applicationRepo,
		storageDir:      storageDir,
		db:              db,
	}
}

var allowedMimeTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// Upload validates, stores and records a document for a draft application
func (f *DocumentFlowImpl) Upload(ctx context.Context, merchantID uint, applicationUUID string, upload *DocumentUpload, metadata *ClientMetadata) (*dto.DocumentDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	if !application.IsEditable() {
		return nil, NewBusinessError(dto.ErrorApplicationNotEditable, "Documents can only be uploaded to draft applications", ErrApplicationNotEditable)
	}

	docType := models.DocumentType(upload.DocumentType)
	if !docType.Valid() {
		return nil, NewBusinessError(dto.ErrorDocumentTypeInvalid, "Unsupported document type", ErrDocumentTypeInvalid)
	}

	ext, ok := allowedMimeTypes[upload.MimeType]
	if !ok {
		return nil, NewBusinessError(dto.ErrorMimeTypeInvalid, "Unsupported file format", ErrMimeTypeInvalid)
	}

	if upload.SizeBytes <= 0 || upload.SizeBytes > utils.MaxUploadSize {
		return nil, NewBusinessError(dto.ErrorDocumentTooLarge, "Document exceeds the maximum upload size", ErrDocumentTooLarge)
	}

	storagePath, err := f.storeFile(application.UUID, ext, upload)
	if err != nil {
		return nil, NewBusinessError("DOCUMENT_STORE_FAILED", "Failed to store document", err)
	}

	document := &models.Document{
		ApplicationID: application.ID,
		Type:          docType,
		StoragePath:   storagePath,
		FileName:      upload.FileName,
		MimeType:      upload.MimeType,
		SizeBytes:     upload.SizeBytes,
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.documentRepo.Save(txCtx, document)
	})
	if err != nil {
		// Keep storage consistent with the database.
		_ = os.Remove(storagePath)
		return nil, NewBusinessError("DOCUMENT_SAVE_FAILED", "Failed to save document", err)
	}

	d := ToDocumentDTO(*document)
	return &d, nil
}

// List returns all documents attached to an application, oldest first
func (f *DocumentFlowImpl) List(ctx context.Context, merchantID uint, applicationUUID string) ([]dto.DocumentDTO, error) {
	application, err := f.ownedApplication(ctx, merchantID, applicationUUID)
	if err != nil {
		return nil, err
	}

	documents, err := f.documentRepo.ByApplicationID(ctx, application.ID)
	if err != nil {
		return nil, NewBusinessError("LIST_DOCUMENTS_FAILED", "Failed to list documents", err)
	}

	items := make([]dto.DocumentDTO, 0, len(documents))
	for _, document := range documents {
		items = append(items, ToDocumentDTO(*document))
	}

	return items, nil
}

// storeFile writes the upload to local disk under the application's directory
func (f *DocumentFlowImpl) storeFile(applicationUUID uuid.UUID, ext string, upload *DocumentUpload) (string, error) {
	dir := filepath.Join(f.storageDir, applicationUUID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	storagePath := filepath.Join(dir, uuid.New().String()+ext)

	file, err := os.OpenFile(storagePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer file.Close()

	// LimitReader guards against a forged Content-Length.
	written, err := io.Copy(file, io.LimitReader(upload.Content, utils.MaxUploadSize+1))
	if err != nil {
		_ = os.Remove(storagePath)
		return "", fmt.Errorf("failed to write document file: %w", err)
	}
	if written > utils.MaxUploadSize {
		_ = os.Remove(storagePath)
		return "", ErrDocumentTooLarge
	}

	return storagePath, nil
}

func (f *DocumentFlowImpl) ownedApplication(ctx context.Context, merchantID uint, applicationUUID string) (*models.Application, error) {
	if _, err := utils.ParseUUID(applicationUUID); err != nil {
		return nil, NewBusinessError(dto.ErrorApplicationNotFound, "Application not found", ErrApplicationNotFound)
	}

	application, err := f.applicationRepo.ByUUID(ctx, applicationUUID)
	if err != nil {
		return nil, NewBusinessError("GET_APPLICATION_FAILED", "Failed to load application", err)
	}
	if application == nil {
		return nil, NewBusinessError(dto.ErrorApplicationNotFound, "Application not found", ErrApplicationNotFound)
	}
	if application.MerchantID != merchantID {
		return nil, NewBusinessError(dto.ErrorNotApplicationOwner, "Application belongs to another merchant", ErrNotApplicationOwner)
	}

	return application, nil
}
