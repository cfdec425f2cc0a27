package account

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/xlzd/gotp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/notify"
	"github.com/oggyb/liftlink/internal/repository"
)

// MaxBioLength is counted in characters, not bytes.
const MaxBioLength = 200

const verificationTokenLength = 32

var errBioTooLong = svcErr.InvalidArgument("Bio must be 200 characters or less")

// Service implements account lifecycle: registration, login, profile
// maintenance, email verification and cascading deletion.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	gym      *repository.GymProfileRepository
	posts    *repository.PostRepository
	requests *repository.RequestRepository
	verifier *repository.VerificationRepository
	hashCost int
}

// NewService creates the account service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		gym:      repository.NewGymProfileRepository(appCtx.DB),
		posts:    repository.NewPostRepository(appCtx.DB),
		requests: repository.NewRequestRepository(appCtx.DB),
		verifier: repository.NewVerificationRepository(appCtx.DB),
		hashCost: bcrypt.DefaultCost,
	}
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Gender    string
	Age       string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token  string
	UserID string
	Email  string
}

// UserView is the caller's account without the credential hash, plus
// the gym-profile fields shown on the account page.
type UserView struct {
	db.User
	Bio        string  `json:"bio"`
	Focus      *string `json:"focus"`
	Experience *string `json:"experience"`
}

// UpdateInput is a partial update. A nil field is left untouched; for the
// optional columns a non-nil pointer to nil clears the value.
type UpdateInput struct {
	FirstName *string
	LastName  *string
	Gender    **string
	Age       **string
	Bio       **string
}

// NormalizeEmail lower-cases and trims an address so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs the user in.
//
// Behavior:
//   - Email is normalized and must end with the configured suffix (".edu").
//   - A second registration with the same email (any case) fails AlreadyExists.
//   - A one-time verification token is stored and mailed in the background;
//     the account is usable before verification.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(in.Email)
	if !strings.HasSuffix(email, s.appCtx.Config.App.EmailSuffix) {
		return nil, svcErr.InvalidArgument("Please use a valid .edu email address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, svcErr.Wrap(svcErr.CodeInternal, "failed to hash password", err)
	}

	now := s.appCtx.Now()
	user := &db.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       optional(in.Gender),
		Age:          optional(in.Age),
		CreatedAt:    now,
	}
	verification := &db.VerificationToken{
		UserID:    user.ID,
		Token:     gotp.RandomSecret(verificationTokenLength),
		ExpiresAt: now.Add(s.appCtx.Config.App.VerificationTTL),
		CreatedAt: now,
	}

	err = s.appCtx.Exclusive(func() error {
		exists, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return svcErr.AlreadyExists("Account already exists")
		}
		return s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
				return err
			}
			return s.verifier.WithTx(tx).Create(ctx, verification)
		})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, svcErr.AlreadyExists("Account already exists")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}

	token, err := s.appCtx.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	s.sendVerification(user, verification.Token)
	s.appCtx.Logger.Info("user registered", "user_id", user.ID)

	return &AuthResult{Token: token, UserID: user.ID, Email: user.Email}, nil
}

// Login checks the password and issues a new session token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, svcErr.InvalidArgument("Email and password required")
	}

	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.Unauthenticated("Invalid credentials")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, svcErr.Unauthenticated("Invalid credentials")
	}

	token, err := s.appCtx.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &AuthResult{Token: token, UserID: user.ID, Email: user.Email}, nil
}

// Logout revokes one token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.appCtx.Sessions.Delete(ctx, token)
}

// Me returns the caller's account merged with their gym profile.
func (s *Service) Me(ctx context.Context, userID string) (*UserView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("User not found")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}

	view := &UserView{User: *user}
	profile, err := s.gym.Get(ctx, userID)
	switch {
	case err == nil:
		view.Focus = profile.Focus
		view.Experience = profile.Experience
		if profile.Bio != nil {
			view.Bio = *profile.Bio
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, svcErr.Map(err)
	}
	return view, nil
}

// Update applies a partial update to the caller's account.
// Bio lives on the gym profile, which is created if missing.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*db.User, error) {
	if in.Bio != nil && *in.Bio != nil && utf8.RuneCountInString(**in.Bio) > MaxBioLength {
		return nil, errBioTooLong
	}

	var user *db.User
	err := s.appCtx.Exclusive(func() error {
		return s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
			users := s.users.WithTx(tx)
			u, err := users.GetByID(ctx, userID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return svcErr.NotFound("User not found")
			} else if err != nil {
				return err
			}

			if in.FirstName != nil {
				u.FirstName = *in.FirstName
			}
			if in.LastName != nil {
				u.LastName = *in.LastName
			}
			if in.Gender != nil {
				u.Gender = *in.Gender
			}
			if in.Age != nil {
				u.Age = *in.Age
			}
			now := s.appCtx.Now()
			u.EditedAt = &now
			if err := users.Save(ctx, u); err != nil {
				return err
			}

			if in.Bio != nil {
				gym := s.gym.WithTx(tx)
				profile, err := gym.Get(ctx, userID)
				if errors.Is(err, gorm.ErrRecordNotFound) {
					profile = &db.GymProfile{UserID: userID}
				} else if err != nil {
					return err
				}
				profile.Bio = *in.Bio
				profile.UpdatedAt = now
				if err := gym.Upsert(ctx, profile); err != nil {
					return err
				}
			}
			user = u
			return nil
		})
	})
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return user, nil
}

// Delete removes the account and everything that references it:
// gym profile, owned posts, requests on either side, verification tokens
// and every session.
func (s *Service) Delete(ctx context.Context, userID string) error {
	err := s.appCtx.Exclusive(func() error {
		return s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.requests.WithTx(tx).DeleteForUser(ctx, userID); err != nil {
				return err
			}
			if err := s.posts.WithTx(tx).DeleteByOwner(ctx, userID); err != nil {
				return err
			}
			if err := s.gym.WithTx(tx).Delete(ctx, userID); err != nil {
				return err
			}
			if err := s.verifier.WithTx(tx).DeleteForUser(ctx, userID); err != nil {
				return err
			}
			return s.users.WithTx(tx).Delete(ctx, userID)
		})
	})
	if err != nil {
		return svcErr.Map(err)
	}

	if err := s.appCtx.Sessions.DeleteUser(ctx, userID); err != nil {
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Info("account deleted", "user_id", userID)
	return nil
}

// VerifyEmail consumes a verification token.
//
// Behavior:
//   - Unknown, consumed or expired tokens fail InvalidArgument.
//   - If the owner is already verified, reports alreadyVerified without error.
//   - Otherwise marks the user verified exactly once.
func (s *Service) VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, svcErr.InvalidArgument("Verification token required")
	}
	invalid := svcErr.InvalidArgument("Invalid or expired verification token")

	err = s.appCtx.Exclusive(func() error {
		return s.appCtx.DB.Transaction(func(tx *gorm.DB) error {
			vt, err := s.verifier.WithTx(tx).GetByToken(ctx, token)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid
			} else if err != nil {
				return err
			}
			user, err := s.users.WithTx(tx).GetByID(ctx, vt.UserID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invalid
			} else if err != nil {
				return err
			}
			if user.Verified {
				alreadyVerified = true
				return nil
			}

			now := s.appCtx.Now()
			if vt.ConsumedAt != nil || !now.Before(vt.ExpiresAt) {
				return invalid
			}
			consumed, err := s.verifier.WithTx(tx).Consume(ctx, vt.ID, now)
			if err != nil {
				return err
			}
			if !consumed {
				return invalid
			}
			_, err = s.users.WithTx(tx).MarkVerified(ctx, user.ID, now)
			return err
		})
	})
	if err != nil {
		return false, svcErr.Map(err)
	}
	return alreadyVerified, nil
}

// ResendVerification issues a fresh token for an unverified caller.
func (s *Service) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFound("User not found")
	} else if err != nil {
		return svcErr.Map(err)
	}
	if user.Verified {
		return svcErr.Conflict("Email already verified")
	}

	now := s.appCtx.Now()
	vt := &db.VerificationToken{
		UserID:    user.ID,
		Token:     gotp.RandomSecret(verificationTokenLength),
		ExpiresAt: now.Add(s.appCtx.Config.App.VerificationTTL),
		CreatedAt: now,
	}
	if err := s.verifier.Create(ctx, vt); err != nil {
		return svcErr.Map(err)
	}
	s.sendVerification(user, vt.Token)
	return nil
}

func (s *Service) sendVerification(user *db.User, token string) {
	if s.appCtx.Notifier == nil {
		return
	}
	s.appCtx.Notifier.Dispatch("verification",
		notify.VerificationEmail(user.Email, user.FirstName, s.appCtx.Config.App.FrontendURL, token))
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
