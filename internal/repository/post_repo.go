package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/db"
)

// PostRepository provides data access for session invitations.
// Listings are returned in creation order.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(database *gorm.DB) *PostRepository {
	return &PostRepository{db: database}
}

func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx}
}

func (r *PostRepository) Create(ctx context.Context, p *db.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByID returns gorm.ErrRecordNotFound when the post does not exist.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*db.Post, error) {
	var p db.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	err := r.db.WithContext(ctx).Order("seq ASC").Find(&posts).Error
	return posts, err
}

func (r *PostRepository) ListByOwner(ctx context.Context, userID string) ([]db.Post, error) {
	var posts []db.Post
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("seq ASC").Find(&posts).Error
	return posts, err
}

// GetMany returns posts keyed by id. Deleted posts are simply absent.
func (r *PostRepository) GetMany(ctx context.Context, ids []string) (map[string]db.Post, error) {
	out := make(map[string]db.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var posts []db.Post
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PostRepository) Save(ctx context.Context, p *db.Post) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Post{}).Error
}

func (r *PostRepository) DeleteByOwner(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&db.Post{}).Error
}
