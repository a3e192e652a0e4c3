package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Offer badge labels
const (
	BadgeBestRate      = "Best Rate"
	BadgeHighestAmount = "Highest Amount"
	BadgeFastApproval  = "Fast Approval"
)

// ApprovalProbability is the qualitative likelihood shown on an offer
type ApprovalProbability string

const (
	ProbabilityHigh   ApprovalProbability = "High"
	ProbabilityMedium ApprovalProbability = "Medium"
)

// Valid checks if the probability is valid
func (p ApprovalProbability) Valid() bool {
	return p == ProbabilityHigh || p == ProbabilityMedium
}

// Scan implements the sql.Scanner interface for ApprovalProbability
func (p *ApprovalProbability) Scan(value any) error {
	if value == nil {
		*p = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*p = ApprovalProbability(v)
	case []byte:
		*p = ApprovalProbability(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ApprovalProbability", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ApprovalProbability
func (p ApprovalProbability) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid ApprovalProbability: %s", p)
	}
	return string(p), nil
}

// BadgeList is an ordered set of offer badges stored as JSONB
type BadgeList []string

// Value implements the driver.Valuer interface for BadgeList
func (b BadgeList) Value() (driver.Value, error) {
	if b == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(b)
}

// Scan implements the sql.Scanner interface for BadgeList
func (b *BadgeList) Scan(value any) error {
	if value == nil {
		*b = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into BadgeList", value)
	}

	return json.Unmarshal(bytes, b)
}

// Contains reports whether the badge is present
func (b BadgeList) Contains(badge string) bool {
	for _, v := range b {
		if v == badge {
			return true
		}
	}
	return false
}

// Offer is a concrete loan offer from one lender for one application.
// Replaced alongside decisions on every evaluation run.
type Offer struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ApplicationID uint `gorm:"not null;index:idx_offers_application_id;uniqueIndex:uk_offers_application_lender" json:"application_id"`
	LenderID      uint `gorm:"not null;uniqueIndex:uk_offers_application_lender" json:"lender_id"`

	ApprovedAmount  float64 `gorm:"type:numeric(15,2);not null" json:"approved_amount"`
	InterestRateMin float64 `gorm:"type:numeric(5,2);not null" json:"interest_rate_min"`
	InterestRateMax float64 `gorm:"type:numeric(5,2);not null" json:"interest_rate_max"`
	TenureMonths    int     `gorm:"not null" json:"tenure_months"`

	// EMI bounds carry the source system's naming: EMIMin is computed from
	// the lender's max rate and EMIMax from the min rate, so numerically
	// EMIMin >= EMIMax.
	EMIMin float64 `gorm:"column:emi_min;type:numeric(15,2);not null" json:"emi_min"`
	EMIMax float64 `gorm:"column:emi_max;type:numeric(15,2);not null" json:"emi_max"`

	ApprovalProbability ApprovalProbability `gorm:"type:varchar(10);not null" json:"approval_probability"`
	Badges              BadgeList           `gorm:"type:jsonb;not null" json:"badges"`
	CreatedAt           time.Time           `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
	Lender      *Lender      `gorm:"foreignKey:LenderID;references:ID" json:"lender,omitempty"`
}

// TableName returns the table name for the model
func (Offer) TableName() string {
	return "offers"
}

// OfferFilter represents filter criteria for offers
type OfferFilter struct {
	ApplicationID *uint `json:"application_id,omitempty"`
	LenderID      *uint `json:"lender_id,omitempty"`
}
