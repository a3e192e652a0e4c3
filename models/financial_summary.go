package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ConsistencyLevel grades how stable a revenue or cash-flow series is
type ConsistencyLevel string

const (
	ConsistencyHigh   ConsistencyLevel = "High"
	ConsistencyMedium ConsistencyLevel = "Medium"
	ConsistencyLow    ConsistencyLevel = "Low"
)

// Valid checks if the level is valid
func (l ConsistencyLevel) Valid() bool {
	switch l {
	case ConsistencyHigh, ConsistencyMedium, ConsistencyLow:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ConsistencyLevel
func (l *ConsistencyLevel) Scan(value any) error {
	if value == nil {
		*l = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*l = ConsistencyLevel(v)
	case []byte:
		*l = ConsistencyLevel(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ConsistencyLevel", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for ConsistencyLevel
func (l ConsistencyLevel) Value() (driver.Value, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid ConsistencyLevel: %s", l)
	}
	return string(l), nil
}

// Inverse maps a consistency grade to its mirrored volatility grade:
// High consistency means Low volatility and vice versa.
func (l ConsistencyLevel) Inverse() ConsistencyLevel {
	switch l {
	case ConsistencyHigh:
		return ConsistencyLow
	case ConsistencyLow:
		return ConsistencyHigh
	default:
		return ConsistencyMedium
	}
}

// FinancialSummary holds the financial profile derived from a merchant's
// bank statement. At most one summary exists per application; re-running
// extraction replaces it wholesale.
type FinancialSummary struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ApplicationID uint `gorm:"not null;uniqueIndex:uk_financial_summaries_application_id" json:"application_id"`
	DocumentID    uint `gorm:"not null" json:"document_id"`

	AvgMonthlyRevenue   float64          `gorm:"type:numeric(15,2);not null" json:"avg_monthly_revenue"`
	HighestRevenue      float64          `gorm:"type:numeric(15,2);not null" json:"highest_revenue"`
	LowestRevenue       float64          `gorm:"type:numeric(15,2);not null" json:"lowest_revenue"`
	AvgBalance          float64          `gorm:"type:numeric(15,2);not null" json:"avg_balance"`
	RevenueConsistency  ConsistencyLevel `gorm:"type:varchar(10);not null" json:"revenue_consistency"`
	CashFlowVolatility  ConsistencyLevel `gorm:"type:varchar(10);not null" json:"cash_flow_volatility"`
	TransactionCount    int              `gorm:"not null;default:0" json:"transaction_count"`
	NegativeBalanceDays int              `gorm:"not null;default:0" json:"negative_balance_days"`
	RiskSummary         *string          `gorm:"type:text" json:"risk_summary,omitempty"`
	CreatedAt           time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Application *Application `gorm:"foreignKey:ApplicationID;references:ID" json:"application,omitempty"`
}

// TableName returns the table name for the model
func (FinancialSummary) TableName() string {
	return "financial_summaries"
}

// BeforeCreate validates the revenue ordering invariant
func (f *FinancialSummary) BeforeCreate(tx *gorm.DB) error {
	return f.Validate()
}

// Validate enforces lowest <= avg <= highest and the volatility mirror
func (f *FinancialSummary) Validate() error {
	if f.LowestRevenue > f.AvgMonthlyRevenue || f.AvgMonthlyRevenue > f.HighestRevenue {
		return fmt.Errorf("revenue ordering violated: low=%.2f avg=%.2f high=%.2f",
			f.LowestRevenue, f.AvgMonthlyRevenue, f.HighestRevenue)
	}
	if !f.RevenueConsistency.Valid() || !f.CashFlowVolatility.Valid() {
		return fmt.Errorf("invalid consistency labels: %q / %q", f.RevenueConsistency, f.CashFlowVolatility)
	}
	if f.CashFlowVolatility != f.RevenueConsistency.Inverse() {
		return fmt.Errorf("cash flow volatility %q does not mirror consistency %q",
			f.CashFlowVolatility, f.RevenueConsistency)
	}
	return nil
}

// FinancialSummaryFilter represents filter criteria for financial summaries
type FinancialSummaryFilter struct {
	ID            *uint `json:"id,omitempty"`
	ApplicationID *uint `json:"application_id,omitempty"`
}
