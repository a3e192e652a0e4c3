// Package businessflow contains the core business logic for the loan origination pipeline
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account-related errors
	ErrMerchantNotFound   = errors.New("merchant not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrResetTokenInvalid  = errors.New("reset token is invalid")
	ErrResetTokenExpired  = errors.New("reset token has expired")

	// Application-related errors
	ErrApplicationNotFound    = errors.New("application not found")
	ErrNotApplicationOwner    = errors.New("application belongs to another merchant")
	ErrApplicationNotDraft    = errors.New("application has already been submitted")
	ErrApplicationNotEditable = errors.New("application can no longer be edited")
	ErrUpdateRequired         = errors.New("at least one field must be provided for update")

	// Document-related errors
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentTooLarge    = errors.New("document exceeds the maximum upload size")
	ErrDocumentTypeInvalid = errors.New("unsupported document type")
	ErrMimeTypeInvalid     = errors.New("unsupported file format")

	// Pipeline-related errors
	ErrBankStatementRequired = errors.New("a bank statement document is required")
	ErrFinancialsMissing     = errors.New("financial extraction has not been run")
	ErrScoreMissing          = errors.New("eligibility score has not been calculated")
	ErrLenderNotFound        = errors.New("lender not found")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsMerchantNotFound(err error) bool {
	return errors.Is(err, ErrMerchantNotFound)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsResetTokenInvalid(err error) bool {
	return errors.Is(err, ErrResetTokenInvalid)
}

func IsResetTokenExpired(err error) bool {
	return errors.Is(err, ErrResetTokenExpired)
}

func IsApplicationNotFound(err error) bool {
	return errors.Is(err, ErrApplicationNotFound)
}

func IsNotApplicationOwner(err error) bool {
	return errors.Is(err, ErrNotApplicationOwner)
}

func IsApplicationNotDraft(err error) bool {
	return errors.Is(err, ErrApplicationNotDraft)
}

func IsApplicationNotEditable(err error) bool {
	return errors.Is(err, ErrApplicationNotEditable)
}

func IsUpdateRequired(err error) bool {
	return errors.Is(err, ErrUpdateRequired)
}

func IsDocumentNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}

func IsDocumentTooLarge(err error) bool {
	return errors.Is(err, ErrDocumentTooLarge)
}

func IsDocumentTypeInvalid(err error) bool {
	return errors.Is(err, ErrDocumentTypeInvalid)
}

func IsMimeTypeInvalid(err error) bool {
	return errors.Is(err, ErrMimeTypeInvalid)
}

func IsBankStatementRequired(err error) bool {
	return errors.Is(err, ErrBankStatementRequired)
}

func IsFinancialsMissing(err error) bool {
	return errors.Is(err, ErrFinancialsMissing)
}

func IsScoreMissing(err error) bool {
	return errors.Is(err, ErrScoreMissing)
}

func IsLenderNotFound(err error) bool {
	return errors.Is(err, ErrLenderNotFound)
}
