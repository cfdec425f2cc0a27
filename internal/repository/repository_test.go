package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/db"
	"github.com/oggyb/liftlink/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.NewMemoryDB(t.Name())
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(database) })
	return database
}

func newUser(t *testing.T, repo *repository.UserRepository, email string) *db.User {
	t.Helper()
	u := &db.User{ID: uuid.NewString(), Email: email, PasswordHash: "hash", FirstName: "Test", LastName: "User"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))

	u := newUser(t, repo, "a@school.edu")

	got, err := repo.GetByEmail(ctx, "a@school.edu")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	exists, err := repo.EmailExists(ctx, "a@school.edu")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// duplicate email is rejected by the unique index
	dup := &db.User{ID: uuid.NewString(), Email: "a@school.edu", PasswordHash: "x", FirstName: "B", LastName: "C"}
	assert.ErrorIs(t, repo.Create(ctx, dup), gorm.ErrDuplicatedKey)
}

func TestUserRepository_MarkVerifiedOnce(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))
	u := newUser(t, repo, "v@school.edu")

	changed, err := repo.MarkVerified(ctx, u.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkVerified(ctx, u.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
}

func TestUserRepository_ListAndGetMany(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))
	a := newUser(t, repo, "a@school.edu")
	b := newUser(t, repo, "b@school.edu")

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
	assert.Equal(t, b.ID, users[1].ID)

	m, err := repo.GetMany(ctx, []string{b.ID, "ghost"})
	require.NoError(t, err)
	assert.Len(t, m, 1)
	assert.Equal(t, "b@school.edu", m[b.ID].Email)
}

func TestGymProfileRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewGymProfileRepository(setupTestDB(t))

	focus, exp := "strength", "beginner"
	require.NoError(t, repo.Upsert(ctx, &db.GymProfile{UserID: "u1", Focus: &focus, Experience: &exp}))

	exp2, bio := "advanced", "hi"
	require.NoError(t, repo.Upsert(ctx, &db.GymProfile{UserID: "u1", Focus: &focus, Experience: &exp2, Bio: &bio}))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "advanced", *got.Experience)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "hi", *got.Bio)

	_, err = repo.Get(ctx, "u2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPostRepository(setupTestDB(t))

	mk := func(owner, title string) *db.Post {
		p := &db.Post{ID: uuid.NewString(), UserID: owner, Title: title, WorkoutType: "cardio",
			DateTime: "2030-01-01T10:00:00Z", Location: "Gym", PartySize: "2", ExperienceLevel: "beginner"}
		require.NoError(t, repo.Create(ctx, p))
		return p
	}
	p1 := mk("u1", "first")
	mk("u2", "second")
	mk("u1", "third")

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Title)

	mine, err := repo.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	p1.Title = "renamed"
	require.NoError(t, repo.Save(ctx, p1))
	got, err := repo.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	require.NoError(t, repo.DeleteByOwner(ctx, "u1"))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRequestRepository_ResolveOnlyOnce(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRequestRepository(setupTestDB(t))

	req := &db.InterestRequest{ID: uuid.NewString(), SenderID: "a", ReceiverID: "b", Kind: db.KindProfile, Status: db.StatusPending}
	require.NoError(t, repo.Create(ctx, req))

	ok, err := repo.Resolve(ctx, req.ID, db.StatusAccepted, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Resolve(ctx, req.ID, db.StatusRejected, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusAccepted, got.Status)
	assert.NotNil(t, got.RespondedAt)
}

func TestRequestRepository_UniquenessAndLookups(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRequestRepository(setupTestDB(t))

	profile := &db.InterestRequest{ID: uuid.NewString(), SenderID: "a", ReceiverID: "b", Kind: db.KindProfile, Status: db.StatusPending}
	require.NoError(t, repo.Create(ctx, profile))

	again := &db.InterestRequest{ID: uuid.NewString(), SenderID: "a", ReceiverID: "b", Kind: db.KindProfile, Status: db.StatusPending}
	assert.ErrorIs(t, repo.Create(ctx, again), gorm.ErrDuplicatedKey)

	// a join request between the same pair is a different request
	join := &db.InterestRequest{ID: uuid.NewString(), SenderID: "a", ReceiverID: "b", Kind: db.KindPost, PostID: "p1", Status: db.StatusPending}
	require.NoError(t, repo.Create(ctx, join))

	has, err := repo.HasProfileInterest(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = repo.HasProfileInterest(ctx, "b", "a")
	require.NoError(t, err)
	assert.False(t, has)

	has, err = repo.HasJoinRequest(ctx, "a", "p1")
	require.NoError(t, err)
	assert.True(t, has)

	received, err := repo.ListByReceiver(ctx, "b")
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, profile.ID, received[0].ID)

	require.NoError(t, repo.DeleteForUser(ctx, "b"))
	sent, err := repo.ListBySender(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestVerificationRepository_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewVerificationRepository(setupTestDB(t))

	tok := &db.VerificationToken{UserID: "u1", Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, tok))

	got, err := repo.GetByToken(ctx, "tok")
	require.NoError(t, err)

	ok, err := repo.Consume(ctx, got.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Consume(ctx, got.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.DeleteForUser(ctx, "u1"))
	_, err = repo.GetByToken(ctx, "tok")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestWithTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	users := repository.NewUserRepository(database)

	err := database.Transaction(func(tx *gorm.DB) error {
		newUser(t, users.WithTx(tx), "tx@school.edu")
		return errors.New("boom")
	})
	require.Error(t, err)

	exists, err := users.EmailExists(ctx, "tx@school.edu")
	require.NoError(t, err)
	assert.False(t, exists)
}
