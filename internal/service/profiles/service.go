package profiles

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/repository"
	"github.com/oggyb/liftlink/internal/utils/pagination"
)

// Profile is the public view of another member.
type Profile struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Gender          *string `json:"gender"`
	Age             *string `json:"age"`
	ExperienceLevel *string `json:"experience_level"`
	Focus           *string `json:"focus"`
	Bio             string  `json:"bio"`

	seq uint64
}

// Filter narrows the profile listing. Empty fields match everything.
type Filter struct {
	Gender          string
	ExperienceLevel string
	Focus           string
	AgeMin          string
	AgeMax          string
	SameGenderOnly  bool
}

// Service implements profile browsing.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	gym    *repository.GymProfileRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		gym:    repository.NewGymProfileRepository(appCtx.DB),
	}
}

// List returns every other member matching f, in registration order.
//
// Behavior:
//   - The caller is never listed.
//   - A predicate whose field is missing on the candidate passes.
//   - SameGenderOnly compares against the caller's gender and is ignored
//     when the caller has none.
//   - Ages that are not whole numbers, and bounds that are not numbers,
//     skip the age check.
func (s *Service) List(ctx context.Context, callerID string, f Filter, pageToken string, limit int) ([]Profile, string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, "", svcErr.Map(err)
	}

	ids := make([]string, 0, len(users))
	var callerGender *string
	for _, u := range users {
		ids = append(ids, u.ID)
		if u.ID == callerID {
			callerGender = u.Gender
		}
	}
	gymByUser, err := s.gym.GetMany(ctx, ids)
	if err != nil {
		return nil, "", svcErr.Map(err)
	}

	matches := make([]Profile, 0, len(users))
	for i := range users {
		if users[i].ID == callerID {
			continue
		}
		p := newProfile(&users[i], gymByUser[users[i].ID])
		if f.match(&p, callerGender) {
			matches = append(matches, p)
		}
	}

	page, next, err := pagination.Page(matches, func(p Profile) uint64 { return p.seq }, pageToken, limit)
	if err != nil {
		return nil, "", svcErr.InvalidArgument(err.Error())
	}
	return page, next, nil
}

// Get returns one member's profile.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Profile not found")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}

	var gp db.GymProfile
	found, err := s.gym.Get(ctx, id)
	switch {
	case err == nil:
		gp = *found
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, svcErr.Map(err)
	}
	p := newProfile(u, gp)
	return &p, nil
}

func newProfile(u *db.User, gp db.GymProfile) Profile {
	p := Profile{
		ID:              u.ID,
		Username:        strings.SplitN(u.Email, "@", 2)[0],
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Gender:          u.Gender,
		Age:             u.Age,
		ExperienceLevel: gp.Experience,
		Focus:           gp.Focus,
		seq:             u.Seq,
	}
	if gp.Bio != nil {
		p.Bio = *gp.Bio
	}
	return p
}

func (f Filter) match(p *Profile, callerGender *string) bool {
	if f.Gender != "" && present(p.Gender) && !strings.EqualFold(*p.Gender, f.Gender) {
		return false
	}
	if f.SameGenderOnly && present(callerGender) {
		if !present(p.Gender) || !strings.EqualFold(*p.Gender, *callerGender) {
			return false
		}
	}
	if f.ExperienceLevel != "" && present(p.ExperienceLevel) && !strings.EqualFold(*p.ExperienceLevel, f.ExperienceLevel) {
		return false
	}
	if f.Focus != "" && present(p.Focus) && !strings.EqualFold(*p.Focus, f.Focus) {
		return false
	}
	return f.matchAge(p.Age)
}

func (f Filter) matchAge(age *string) bool {
	if !present(age) {
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(*age))
	if err != nil || n == 0 {
		return true
	}
	// bounds are checked min first; the first unparseable one ends the check
	// and the candidate passes
	if f.AgeMin != "" {
		lo, err := strconv.Atoi(strings.TrimSpace(f.AgeMin))
		if err != nil {
			return true
		}
		if n < lo {
			return false
		}
	}
	if f.AgeMax != "" {
		hi, err := strconv.Atoi(strings.TrimSpace(f.AgeMax))
		if err != nil {
			return true
		}
		if n > hi {
			return false
		}
	}
	return true
}

func present(s *string) bool {
	return s != nil && *s != ""
}
