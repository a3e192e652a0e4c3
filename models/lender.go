package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IndustryList is a nullable set of allowed industries stored as JSONB.
// Empty or null means the lender accepts any industry.
type IndustryList []string

// Value implements the driver.Valuer interface for IndustryList
func (l IndustryList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface for IndustryList
func (l *IndustryList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into IndustryList", value)
	}

	return json.Unmarshal(bytes, l)
}

// Allows reports whether the given industry passes the restriction.
// A nil/empty list places no restriction.
func (l IndustryList) Allows(industry string) bool {
	if len(l) == 0 || industry == "" {
		return true
	}
	for _, allowed := range l {
		if allowed == industry {
			return true
		}
	}
	return false
}

// Lender holds one lender's static eligibility rule set. Reference data,
// read-only to the pipeline.
type Lender struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_lenders_uuid" json:"uuid"`
	Name string    `gorm:"size:255;not null" json:"name"`
	Slug string    `gorm:"size:100;not null;uniqueIndex:uk_lenders_slug" json:"slug"`

	MinMonthlyRevenue       float64      `gorm:"type:numeric(15,2);not null" json:"min_monthly_revenue"`
	MinBusinessVintageMonths int         `gorm:"not null" json:"min_business_vintage_months"`
	MinEligibilityScore     int          `gorm:"not null" json:"min_eligibility_score"`
	LoanMinAmount           float64      `gorm:"type:numeric(15,2);not null" json:"loan_min_amount"`
	LoanMaxAmount           float64      `gorm:"type:numeric(15,2);not null" json:"loan_max_amount"`
	InterestRateMin         float64      `gorm:"type:numeric(5,2);not null" json:"interest_rate_min"`
	InterestRateMax         float64      `gorm:"type:numeric(5,2);not null" json:"interest_rate_max"`
	AllowedIndustries       IndustryList `gorm:"type:jsonb" json:"allowed_industries,omitempty"`
	IsActive                bool         `gorm:"not null;default:true;index:idx_lenders_is_active" json:"is_active"`
	CreatedAt               time.Time    `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
}

// TableName returns the table name for the model
func (Lender) TableName() string {
	return "lenders"
}

// BeforeCreate is called before creating a new record
func (l *Lender) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	return nil
}

// LenderFilter represents filter criteria for lenders
type LenderFilter struct {
	ID       *uint   `json:"id,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}
