package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/liftlink/internal/db"
)

// GymProfileRepository stores one preference record per user.
type GymProfileRepository struct {
	db *gorm.DB
}

func NewGymProfileRepository(database *gorm.DB) *GymProfileRepository {
	return &GymProfileRepository{db: database}
}

func (r *GymProfileRepository) WithTx(tx *gorm.DB) *GymProfileRepository {
	return &GymProfileRepository{db: tx}
}

// Get returns gorm.ErrRecordNotFound when the user has no gym profile.
func (r *GymProfileRepository) Get(ctx context.Context, userID string) (*db.GymProfile, error) {
	var p db.GymProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts the profile or overwrites every preference column of the existing row.
func (r *GymProfileRepository) Upsert(ctx context.Context, p *db.GymProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"focus", "experience", "bio", "updated_at"}),
		}).
		Create(p).Error
}

// GetMany returns profiles keyed by user id. Users without a profile are absent.
func (r *GymProfileRepository) GetMany(ctx context.Context, userIDs []string) (map[string]db.GymProfile, error) {
	out := make(map[string]db.GymProfile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var profiles []db.GymProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *GymProfileRepository) Delete(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.GymProfile{}).Error
}
