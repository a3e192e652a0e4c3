// Package models contains the database models for the loan origination platform
package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MerchantRole distinguishes regular merchants from platform admins
type MerchantRole string

const (
	RoleMerchant MerchantRole = "merchant"
	RoleAdmin    MerchantRole = "admin"
)

// String returns the string representation of the role
func (r MerchantRole) String() string {
	return string(r)
}

// Valid checks if the role is valid
func (r MerchantRole) Valid() bool {
	switch r {
	case RoleMerchant, RoleAdmin:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for MerchantRole
func (r *MerchantRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = MerchantRole(v)
	case []byte:
		*r = MerchantRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MerchantRole", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for MerchantRole
func (r MerchantRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid MerchantRole: %s", r)
	}
	return string(r), nil
}

// Merchant represents a merchant account. An admin is a merchant row with
// the admin role and no business profile.
type Merchant struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uk_merchants_uuid" json:"uuid"`
	Email        string       `gorm:"size:255;not null;uniqueIndex:uk_merchants_email" json:"email"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Name         string       `gorm:"size:255;not null" json:"name"`
	Phone        *string      `gorm:"size:20" json:"phone,omitempty"`
	Role         MerchantRole `gorm:"type:varchar(20);not null;default:'merchant';index:idx_merchants_role" json:"role"`

	// Business profile, read-only to the decision pipeline
	BusinessName      *string    `gorm:"size:255" json:"business_name,omitempty"`
	Industry          *string    `gorm:"size:100" json:"industry,omitempty"`
	City              *string    `gorm:"size:100" json:"city,omitempty"`
	BusinessAgeMonths int        `gorm:"not null;default:0" json:"business_age_months"`
	MonthlyRevenue    *float64   `gorm:"type:numeric(15,2)" json:"monthly_revenue,omitempty"`
	CreatedAt         time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`

	// Relations
	Applications []Application `gorm:"foreignKey:MerchantID" json:"applications,omitempty"`
}

// TableName returns the table name for the model
func (Merchant) TableName() string {
	return "merchants"
}

// BeforeCreate is called before creating a new record
func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	if m.Role == "" {
		m.Role = RoleMerchant
	}
	return nil
}

// IsAdmin reports whether the account has the admin role
func (m *Merchant) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// DeclaredMonthlyRevenue returns the declared revenue or 0 when unset
func (m *Merchant) DeclaredMonthlyRevenue() float64 {
	if m.MonthlyRevenue == nil {
		return 0
	}
	return *m.MonthlyRevenue
}

// MerchantFilter represents filter criteria for merchants
type MerchantFilter struct {
	ID     *uint         `json:"id,omitempty"`
	UUID   *uuid.UUID    `json:"uuid,omitempty"`
	Email  *string       `json:"email,omitempty"`
	Role   *MerchantRole `json:"role,omitempty"`
	Search *string       `json:"search,omitempty"`
}
