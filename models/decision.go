package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DecisionOutcome is the per-lender verdict for an application
type DecisionOutcome string

const (
	OutcomeApproved    DecisionOutcome = "approved"
	OutcomeConditional DecisionOutcome = "conditional"
	OutcomeRejected    DecisionOutcome = "rejected"
)

// Valid checks if the outcome is valid
func (o DecisionOutcome) Valid() bool {
	switch o {
	case OutcomeApproved, OutcomeConditional, OutcomeRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for DecisionOutcome
func (o *DecisionOutcome) Scan(value any) error {
	if value == nil {
		*o = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*o = DecisionOutcome(v)
	case []byte:
		*o = DecisionOutcome(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DecisionOutcome", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for DecisionOutcome
func (o DecisionOutcome) Value() (driver.Value, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid DecisionOutcome: %s", o)
	}
	return string(o), nil
}

// Qualifies reports whether the outcome qualifies for an offer
func (o DecisionOutcome) Qualifies() bool {
	return o == OutcomeApproved || o == OutcomeConditional
}

// Decision records one lender's verdict for one application. The full set
// is replaced on every evaluation run; no history is kept.
type Decision struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ApplicationID uint            `gorm:"not null;index:idx_decisions_application_id;uniqueIndex:uk_decisions_application_lender" json:"application_id"`
	LenderID      uint            `gorm:"not null;uniqueIndex:uk_decisions_application_lender" json:"lender_id"`
	Outcome       DecisionOutcome `gorm:"type:varchar(20);not null" json:"outcome"`
	Reason        string          `gorm:"type:text;not null" json:"reason"`
	CreatedAt     time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
	Lender      *Lender      `gorm:"foreignKey:LenderID;references:ID" json:"lender,omitempty"`
}

// TableName returns the table name for the model
func (Decision) TableName() string {
	return "decisions"
}

// DecisionFilter represents filter criteria for decisions
type DecisionFilter struct {
	ApplicationID *uint            `json:"application_id,omitempty"`
	LenderID      *uint            `json:"lender_id,omitempty"`
	Outcome       *DecisionOutcome `json:"outcome,omitempty"`
}
