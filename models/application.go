package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/lendwise/lendwise/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents the lifecycle state of a loan application
type ApplicationStatus string

const (
	ApplicationStatusDraft             ApplicationStatus = "draft"
	ApplicationStatusSubmitted         ApplicationStatus = "submitted"
	ApplicationStatusProcessing        ApplicationStatus = "processing"
	ApplicationStatusDecisionGenerated ApplicationStatus = "decision_generated"
)

// String returns the string representation of the status
func (s ApplicationStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusDraft, ApplicationStatusSubmitted,
		ApplicationStatusProcessing, ApplicationStatusDecisionGenerated:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ApplicationStatus
func (s *ApplicationStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = ApplicationStatus(v)
	case []byte:
		*s = ApplicationStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ApplicationStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (s ApplicationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ApplicationStatus: %s", s)
	}
	return string(s), nil
}

// rank orders statuses along the pipeline; transitions only move forward
func (s ApplicationStatus) rank() int {
	switch s {
	case ApplicationStatusDraft:
		return 0
	case ApplicationStatusSubmitted:
		return 1
	case ApplicationStatusProcessing:
		return 2
	case ApplicationStatusDecisionGenerated:
		return 3
	default:
		return -1
	}
}

// CanTransitionTo checks if the application can move to the given status.
// The lifecycle only moves forward: draft -> submitted -> processing ->
// decision_generated. Re-running a pipeline stage keeps the current status.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

// LoanType represents the requested loan product
type LoanType string

const (
	LoanTypeWorkingCapital LoanType = "working_capital"
	LoanTypeTermLoan       LoanType = "term_loan"
)

// Valid checks if the loan type is valid
func (t LoanType) Valid() bool {
	switch t {
	case LoanTypeWorkingCapital, LoanTypeTermLoan:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for LoanType
func (t *LoanType) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = LoanType(v)
	case []byte:
		*t = LoanType(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LoanType", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for LoanType
func (t LoanType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid LoanType: %s", t)
	}
	return string(t), nil
}

// Application represents a merchant loan application
type Application struct {
	ID                 uint              `gorm:"primaryKey" json:"id"`
	UUID               uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uk_applications_uuid" json:"uuid"`
	MerchantID         uint              `gorm:"not null;index:idx_applications_merchant_id" json:"merchant_id"`
	LoanType           LoanType          `gorm:"type:varchar(30);not null" json:"loan_type"`
	Status             ApplicationStatus `gorm:"type:varchar(30);not null;default:'draft';index:idx_applications_status" json:"status"`
	RequestedAmount    *float64          `gorm:"type:numeric(15,2)" json:"requested_amount,omitempty"`
	FoundersCibilScore *int              `json:"founders_cibil_score,omitempty"`
	CreatedAt          time.Time         `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_applications_created_at" json:"created_at"`
	UpdatedAt          *time.Time        `json:"updated_at,omitempty"`

	// Relations
	Merchant         *Merchant         `gorm:"foreignKey:MerchantID;references:ID" json:"merchant,omitempty"`
	Documents        []Document        `gorm:"foreignKey:ApplicationID" json:"documents,omitempty"`
	FinancialSummary *FinancialSummary `gorm:"foreignKey:ApplicationID" json:"financial_summary,omitempty"`
	EligibilityScore *EligibilityScore `gorm:"foreignKey:ApplicationID" json:"eligibility_score,omitempty"`
	Decisions        []Decision        `gorm:"foreignKey:ApplicationID" json:"decisions,omitempty"`
	Offers           []Offer           `gorm:"foreignKey:ApplicationID" json:"offers,omitempty"`
}

// TableName returns the table name for the model
func (Application) TableName() string {
	return "applications"
}

// BeforeCreate is called before creating a new record
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationStatusDraft
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (a *Application) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	a.UpdatedAt = &now
	return nil
}

// IsEditable checks if the application can still be modified by the merchant
func (a *Application) IsEditable() bool {
	return a.Status == ApplicationStatusDraft
}

// HasBankStatement reports whether a bank statement document is attached
func (a *Application) HasBankStatement() bool {
	for _, d := range a.Documents {
		if d.Type == DocumentTypeBankStatement {
			return true
		}
	}
	return false
}

// BankStatement returns the first attached bank statement document, or nil
func (a *Application) BankStatement() *Document {
	for i := range a.Documents {
		if a.Documents[i].Type == DocumentTypeBankStatement {
			return &a.Documents[i]
		}
	}
	return nil
}

// ApplicationFilter represents filter criteria for applications
type ApplicationFilter struct {
	ID         *uint              `json:"id,omitempty"`
	UUID       *uuid.UUID         `json:"uuid,omitempty"`
	MerchantID *uint              `json:"merchant_id,omitempty"`
	Status     *ApplicationStatus `json:"status,omitempty"`
	LoanType   *LoanType          `json:"loan_type,omitempty"`
	CreatedAfter  *time.Time      `json:"created_after,omitempty"`
	CreatedBefore *time.Time      `json:"created_before,omitempty"`
}
