package gym

import (
	"context"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/repository"
)

const maxBioLength = 200

// ErrNoProfile is returned by Get when the user never saved gym info.
var ErrNoProfile = svcErr.NotFound("No gym info found")

// Service manages the per-user gym preference record.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.GymProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewGymProfileRepository(appCtx.DB),
	}
}

// Save sets focus and experience, and bio when non-nil.
// An existing bio is kept when bio is nil.
func (s *Service) Save(ctx context.Context, userID, focus, experience string, bio *string) (*db.GymProfile, error) {
	if focus == "" || experience == "" {
		return nil, svcErr.InvalidArgument("Focus and experience are required")
	}
	if bio != nil && utf8.RuneCountInString(*bio) > maxBioLength {
		return nil, svcErr.InvalidArgument("Bio must be 200 characters or less")
	}

	var saved *db.GymProfile
	err := s.appCtx.Exclusive(func() error {
		return s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
			repo := s.profiles.WithTx(tx)
			p, err := repo.Get(ctx, userID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				p = &db.GymProfile{UserID: userID}
			} else if err != nil {
				return err
			}
			p.Focus = &focus
			p.Experience = &experience
			if bio != nil {
				p.Bio = bio
			}
			p.UpdatedAt = s.appCtx.Now()
			if err := repo.Upsert(ctx, p); err != nil {
				return err
			}
			saved = p
			return nil
		})
	})
	if err != nil {
		s.appCtx.Logger.Error("save gym info failed", "user_id", userID, "err", err)
		return nil, svcErr.Map(err)
	}
	return saved, nil
}

// Get returns the caller's gym info or ErrNoProfile.
func (s *Service) Get(ctx context.Context, userID string) (*db.GymProfile, error) {
	p, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoProfile
	} else if err != nil {
		return nil, svcErr.Map(err)
	}
	return p, nil
}
