package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentType represents the kind of uploaded document
type DocumentType string

const (
	DocumentTypeBankStatement DocumentType = "bank_statement"
	DocumentTypeGSTReturn     DocumentType = "gst_return"
)

// Valid checks if the document type is valid
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeBankStatement, DocumentTypeGSTReturn:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for DocumentType
func (t *DocumentType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = DocumentType(v)
	case []byte:
		*t = DocumentType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DocumentType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for DocumentType
func (t DocumentType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid DocumentType: %s", t)
	}
	return string(t), nil
}

// Document represents an uploaded file attached to an application
type Document struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uk_documents_uuid" json:"uuid"`
	ApplicationID uint         `gorm:"not null;index:idx_documents_application_id" json:"application_id"`
	Type          DocumentType `gorm:"type:varchar(30);not null" json:"type"`
	StoragePath   string       `gorm:"size:512;not null" json:"-"`
	FileName      string       `gorm:"size:255;not null" json:"file_name"`
	MimeType      string       `gorm:"size:100;not null" json:"mime_type"`
	SizeBytes     int64        `gorm:"not null;default:0" json:"size_bytes"`
	CreatedAt     time.Time    `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
}

// TableName returns the table name for the model
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate is called before creating a new record
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		d.UUID = uuid.New()
	}
	return nil
}

// IsImage reports whether the document is an image the OCR service can read
func (d *Document) IsImage() bool {
	switch d.MimeType {
	case "image/jpeg", "image/png", "image/webp":
		return true
	default:
		return false
	}
}

// DocumentFilter represents filter criteria for documents
type DocumentFilter struct {
	ID            *uint         `json:"id,omitempty"`
	ApplicationID *uint         `json:"application_id,omitempty"`
	Type          *DocumentType `json:"type,omitempty"`
}
