package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/db"
)

// RequestRepository provides data access for the InterestRequest model.
// It encapsulates all queries related to profile interests and join requests.
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new repository bound to the given DB connection.
func NewRequestRepository(database *gorm.DB) *RequestRepository {
	return &RequestRepository{db: database}
}

func (r *RequestRepository) WithTx(tx *gorm.DB) *RequestRepository {
	return &RequestRepository{db: tx}
}

// Create appends a new request.
// A second row for the same (sender, receiver, kind, post) fails with gorm.ErrDuplicatedKey.
func (r *RequestRepository) Create(ctx context.Context, req *db.InterestRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetByID returns gorm.ErrRecordNotFound when the request does not exist.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*db.InterestRequest, error) {
	var req db.InterestRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// HasProfileInterest checks whether sender already expressed interest in receiver,
// at any status.
//
// Example:
//
//	repo.HasProfileInterest(ctx, "a", "b") // -> true if a ever sent interest to b
func (r *RequestRepository) HasProfileInterest(ctx context.Context, senderID, receiverID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.InterestRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND kind = ?", senderID, receiverID, db.KindProfile).
		Count(&count).Error
	return count > 0, err
}

// HasJoinRequest checks whether sender already asked to join the post, at any status.
func (r *RequestRepository) HasJoinRequest(ctx context.Context, senderID, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.InterestRequest{}).
		Where("sender_id = ? AND post_id = ? AND kind = ?", senderID, postID, db.KindPost).
		Count(&count).Error
	return count > 0, err
}

// ListByReceiver returns every request addressed to the user, any kind and status,
// in creation order.
func (r *RequestRepository) ListByReceiver(ctx context.Context, receiverID string) ([]db.InterestRequest, error) {
	var reqs []db.InterestRequest
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("seq ASC").
		Find(&reqs).Error
	return reqs, err
}

// ListBySender returns every request the user sent, in creation order.
func (r *RequestRepository) ListBySender(ctx context.Context, senderID string) ([]db.InterestRequest, error) {
	var reqs []db.InterestRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("seq ASC").
		Find(&reqs).Error
	return reqs, err
}

// Resolve moves a pending request to status.
//
// Behavior:
//   - The update is conditional on status = pending, so a request resolves once.
//   - Returns false (and no error) when the request was not pending anymore.
func (r *RequestRepository) Resolve(ctx context.Context, id string, status db.RequestStatus, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.InterestRequest{}).
		Where("id = ? AND status = ?", id, db.StatusPending).
		Updates(map[string]any{"status": status, "responded_at": at})
	return res.RowsAffected == 1, res.Error
}

// DeleteForUser removes every request where the user is sender or receiver.
func (r *RequestRepository) DeleteForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&db.InterestRequest{}).Error
}
