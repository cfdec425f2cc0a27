package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/db"
)

// VerificationRepository stores one-time email verification tokens.
type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(database *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: database}
}

func (r *VerificationRepository) WithTx(tx *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: tx}
}

func (r *VerificationRepository) Create(ctx context.Context, t *db.VerificationToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetByToken returns gorm.ErrRecordNotFound for unknown tokens.
func (r *VerificationRepository) GetByToken(ctx context.Context, token string) (*db.VerificationToken, error) {
	var t db.VerificationToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Consume marks the token used. It reports false when the token was already consumed.
func (r *VerificationRepository) Consume(ctx context.Context, id uint64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.VerificationToken{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at)
	return res.RowsAffected == 1, res.Error
}

func (r *VerificationRepository) DeleteForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.VerificationToken{}).Error
}
