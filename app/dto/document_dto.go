// Package dto contains Data Transfer Objects for API request and response structures
package dto

// DocumentDTO represents an uploaded document in API responses
type DocumentDTO struct {
	ID           uint   `json:"id" example:"7"`
	UUID         string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	DocumentType string `json:"document_type" example:"bank_statement"`
	FileName     string `json:"file_name" example:"statement-jan.pdf"`
	MimeType     string `json:"mime_type" example:"application/pdf"`
	SizeBytes    int64  `json:"size_bytes" example:"482133"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// Common error codes for document operations
const (
	ErrorDocumentNotFound    = "DOCUMENT_NOT_FOUND"
	ErrorDocumentTooLarge    = "DOCUMENT_TOO_LARGE"
	ErrorDocumentTypeInvalid = "DOCUMENT_TYPE_INVALID"
	ErrorMimeTypeInvalid     = "MIME_TYPE_INVALID"
)
