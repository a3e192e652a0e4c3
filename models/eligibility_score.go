package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EligibilityBand is the categorical tier derived from the numeric score
type EligibilityBand string

const (
	BandPreApproved EligibilityBand = "pre_approved"
	BandConditional EligibilityBand = "conditional"
	BandRejected    EligibilityBand = "rejected"
)

// Valid checks if the band is valid
func (b EligibilityBand) Valid() bool {
	switch b {
	case BandPreApproved, BandConditional, BandRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for EligibilityBand
func (b *EligibilityBand) Scan(value any) error {
	if value == nil {
		*b = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*b = EligibilityBand(v)
	case []byte:
		*b = EligibilityBand(string(v))
	default:
		return fmt.Errorf("cannot scan %T into EligibilityBand", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for EligibilityBand
func (b EligibilityBand) Value() (driver.Value, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid EligibilityBand: %s", b)
	}
	return string(b), nil
}

// BandForScore maps a 0-100 score to its band
func BandForScore(score int) EligibilityBand {
	switch {
	case score >= 75:
		return BandPreApproved
	case score >= 55:
		return BandConditional
	default:
		return BandRejected
	}
}

// FactorBreakdown maps the six scoring factors to their normalized [0,1] values
type FactorBreakdown struct {
	RevenueStrength    float64 `json:"revenueStrength"`
	RevenueConsistency float64 `json:"revenueConsistency"`
	BusinessVintage    float64 `json:"businessVintage"`
	CashFlowHealth     float64 `json:"cashFlowHealth"`
	LoanVsRevenue      float64 `json:"loanVsRevenue"`
	RiskFlags          float64 `json:"riskFlags"`
}

// Value implements the driver.Valuer interface for FactorBreakdown
func (f FactorBreakdown) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements the sql.Scanner interface for FactorBreakdown
func (f *FactorBreakdown) Scan(value any) error {
	if value == nil {
		*f = FactorBreakdown{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FactorBreakdown", value)
	}

	return json.Unmarshal(bytes, f)
}

// EligibilityScore is the weighted eligibility verdict for one application.
// Upsert semantics: at most one live row per application.
type EligibilityScore struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ApplicationID   uint            `gorm:"not null;uniqueIndex:uk_eligibility_scores_application_id" json:"application_id"`
	Score           int             `gorm:"not null" json:"score"`
	Band            EligibilityBand `gorm:"type:varchar(20);not null" json:"band"`
	Reasoning       string          `gorm:"type:text;not null" json:"reasoning"`
	FactorBreakdown FactorBreakdown `gorm:"type:jsonb;not null" json:"factor_breakdown"`
	CreatedAt       time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
}

// TableName returns the table name for the model
func (EligibilityScore) TableName() string {
	return "eligibility_scores"
}

// BeforeCreate validates score bounds
func (e *EligibilityScore) BeforeCreate(tx *gorm.DB) error {
	if e.Score < 0 || e.Score > 100 {
		return fmt.Errorf("score out of range: %d", e.Score)
	}
	return nil
}

// EligibilityScoreFilter represents filter criteria for eligibility scores
type EligibilityScoreFilter struct {
	ID            *uint            `json:"id,omitempty"`
	ApplicationID *uint            `json:"application_id,omitempty"`
	Band          *EligibilityBand `json:"band,omitempty"`
}
