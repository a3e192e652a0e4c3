package repository

import (
	"context"
	"errors"

	"github.com/lendwise/lendwise/models"
	"gorm.io/gorm"
)

// PasswordResetTokenRepositoryImpl implements the PasswordResetTokenRepository interface
type PasswordResetTokenRepositoryImpl struct {
	*BaseRepository[models.PasswordResetToken, models.PasswordResetTokenFilter]
}

// NewPasswordResetTokenRepository creates a new password reset token repository
func NewPasswordResetTokenRepository(db *gorm.DB) PasswordResetTokenRepository {
	return &PasswordResetTokenRepositoryImpl{
		BaseRepository: NewBaseRepository[models.PasswordResetToken, models.PasswordResetTokenFilter](db),
	}
}

// ByToken retrieves a reset token by its opaque value, nil if not found
func (r *PasswordResetTokenRepositoryImpl) ByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	db := r.getDB(ctx)

	var resetToken models.PasswordResetToken
	err := db.Where("token = ?", token).First(&resetToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &resetToken, nil
}

// Delete removes a consumed or expired token
func (r *PasswordResetTokenRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Delete(&models.PasswordResetToken{}, id).Error
	if err != nil {
		return err
	}

	return nil
}
