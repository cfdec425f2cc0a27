package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/db"
)

// UserRepository provides data access for accounts.
// Emails are expected to be normalized by the caller.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// GetByID returns gorm.ErrRecordNotFound when no user has the given id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns gorm.ErrRecordNotFound when the email is not registered.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns every user in registration order.
func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&users).Error
	return users, err
}

// GetMany returns the users with the given ids keyed by id. Unknown ids are skipped.
func (r *UserRepository) GetMany(ctx context.Context, ids []string) (map[string]db.User, error) {
	out := make(map[string]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Save persists every column of u.
func (r *UserRepository) Save(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// MarkVerified flips verified to true. It reports false when the user was already verified.
func (r *UserRepository) MarkVerified(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND verified = ?", id, false).
		Updates(map[string]any{"verified": true, "updated_at": at})
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&db.User{}).Error
}
