// Package services provides external service integrations and technical concerns like tokens, OCR and mail
package services

import (
	"context"
	"errors"
)

// ErrOCRUnavailable signals that no OCR backend is configured. Callers fall
// back to estimation from declared revenue.
var ErrOCRUnavailable = errors.New("OCR service not available")

// OCRService extracts raw text from an uploaded bank statement
type OCRService interface {
	ExtractText(ctx context.Context, storagePath, mimeType string) (string, error)
	Available() bool
}

// UnavailableOCRService is the default OCR backend when none is configured
type UnavailableOCRService struct{}

// NewUnavailableOCRService creates an OCR service that always reports unavailable
func NewUnavailableOCRService() OCRService {
	return &UnavailableOCRService{}
}

// ExtractText always fails with ErrOCRUnavailable
func (s *UnavailableOCRService) ExtractText(ctx context.Context, storagePath, mimeType string) (string, error) {
	return "", ErrOCRUnavailable
}

// Available reports false
func (s *UnavailableOCRService) Available() bool {
	return false
}
