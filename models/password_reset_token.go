package models

import (
	"time"

	"github.com/lendwise/lendwise/utils"
	"gorm.io/gorm"
)

// PasswordResetToken is a single-use, time-limited token mailed to a
// merchant who requested a password reset.
type PasswordResetToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MerchantID uint      `gorm:"not null;index:idx_password_reset_tokens_merchant_id" json:"merchant_id"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Token      string    `gorm:"size:128;not null;uniqueIndex:uk_password_reset_tokens_token" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`

	// Relations
	Merchant *Merchant `gorm:"foreignKey:MerchantID;references:ID" json:"merchant,omitempty"`
}

// TableName returns the table name for the model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// BeforeCreate is called before creating a new record
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	return nil
}

// IsExpired reports whether the token is past its expiry
func (t *PasswordResetToken) IsExpired() bool {
	return utils.IsExpired(t.ExpiresAt)
}

// PasswordResetTokenFilter represents filter criteria for reset tokens
type PasswordResetTokenFilter struct {
	MerchantID *uint   `json:"merchant_id,omitempty"`
	Token      *string `json:"token,omitempty"`
}
