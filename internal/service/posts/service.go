package posts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/repository"
	"github.com/oggyb/liftlink/internal/utils/pagination"
)

var errPostNotFound = svcErr.NotFound("Post not found")

// Service implements session-invitation posts.
type Service struct {
	appCtx *app.AppContext
	posts  *repository.PostRepository
	users  *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		posts:  repository.NewPostRepository(appCtx.DB),
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// CreateInput carries a new post. All string fields except the two
// optional ones are required.
type CreateInput struct {
	Title            string
	WorkoutType      string
	DateTime         string
	Location         string
	PartySize        string
	ExperienceLevel  string
	GenderPreference *string
	Notes            *string
}

// UpdateInput is a partial update. nil leaves a field untouched; for the
// optional fields a non-nil pointer to nil clears the value.
type UpdateInput struct {
	Title            *string
	WorkoutType      *string
	DateTime         *string
	Location         *string
	PartySize        *string
	ExperienceLevel  *string
	GenderPreference **string
	Notes            **string
}

// ListResult is one page of posts.
type ListResult struct {
	Posts         []db.Post
	NextPageToken string
}

// Create stores a post owned by userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*db.Post, error) {
	if in.Title == "" || in.WorkoutType == "" || in.DateTime == "" || in.Location == "" ||
		in.PartySize == "" || in.ExperienceLevel == "" {
		return nil, svcErr.InvalidArgument("Missing required fields")
	}

	owner, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User not found")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}

	p := &db.Post{
		ID:               uuid.NewString(),
		UserID:           userID,
		Username:         owner.Email,
		Title:            in.Title,
		WorkoutType:      in.WorkoutType,
		DateTime:         in.DateTime,
		Location:         in.Location,
		PartySize:        in.PartySize,
		ExperienceLevel:  in.ExperienceLevel,
		GenderPreference: blankToNil(in.GenderPreference),
		Notes:            blankToNil(in.Notes),
		CreatedAt:        s.appCtx.Now(),
	}
	if err := s.posts.Create(ctx, p); err != nil {
		s.appCtx.Logger.Error("create post failed", "user_id", userID, "err", err)
		return nil, svcErr.Map(err)
	}
	s.appCtx.Logger.Debug("post created", "post_id", p.ID, "user_id", userID)
	return p, nil
}

// List returns the posts matching f whose session has not started yet,
// in creation order.
//
// Behavior:
//   - Expiry is evaluated at read time against the app clock; nothing is deleted.
//   - Posts with an unparseable date_time are kept.
//   - limit <= 0 returns every match.
func (s *Service) List(ctx context.Context, f Filter, pageToken string, limit int) (*ListResult, error) {
	all, err := s.posts.List(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	now := s.appCtx.Now()
	active := make([]db.Post, 0, len(all))
	for i := range all {
		if f.Match(&all[i]) && !Expired(&all[i], now) {
			active = append(active, all[i])
		}
	}

	page, next, err := pagination.Page(active, func(p db.Post) uint64 { return p.Seq }, pageToken, limit)
	if err != nil {
		return nil, svcErr.InvalidArgument(err.Error())
	}
	return &ListResult{Posts: page, NextPageToken: next}, nil
}

// ListMine returns every post of userID, expired ones included.
func (s *Service) ListMine(ctx context.Context, userID string) ([]db.Post, error) {
	posts, err := s.posts.ListByOwner(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id string) (*db.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errPostNotFound
	} else if err != nil {
		return nil, svcErr.Map(err)
	}
	return p, nil
}

// Update applies a partial update. Only the owner may edit.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (*db.Post, error) {
	var updated *db.Post
	err := s.appCtx.Exclusive(func() error {
		p, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.UserID != userID {
			return svcErr.Forbidden("Unauthorized to edit this post")
		}

		setString(&p.Title, in.Title)
		setString(&p.WorkoutType, in.WorkoutType)
		setString(&p.DateTime, in.DateTime)
		setString(&p.Location, in.Location)
		setString(&p.PartySize, in.PartySize)
		setString(&p.ExperienceLevel, in.ExperienceLevel)
		if in.GenderPreference != nil {
			p.GenderPreference = blankToNil(*in.GenderPreference)
		}
		if in.Notes != nil {
			p.Notes = blankToNil(*in.Notes)
		}
		now := s.appCtx.Now()
		p.EditedAt = &now

		if err := s.posts.Save(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return updated, nil
}

// Delete removes a post. Only the owner may delete. Requests that point
// at the post are kept; their post details simply stop resolving.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	err := s.appCtx.Exclusive(func() error {
		p, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.UserID != userID {
			return svcErr.Forbidden("Unauthorized to delete this post")
		}
		return s.posts.Delete(ctx, id)
	})
	if err != nil {
		return svcErr.Map(err)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func blankToNil(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}
