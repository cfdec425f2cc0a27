package matching_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/liftlink/internal/app/apptest"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/service/matching"
)

//
// Test helpers
//

type fixture struct {
	env   *apptest.Env
	svc   *matching.Service
	alice *db.User
	bob   *db.User
	carol *db.User
	post  *db.Post // owned by bob
}

// setupService wires the engine on an isolated in-memory store with three
// users and one post owned by bob.
func setupService(t *testing.T) *fixture {
	t.Helper()
	env := apptest.New(t)

	f := &fixture{
		env:   env,
		svc:   matching.NewService(env.App),
		alice: env.CreateUser(t, "alice@school.edu", "Alice", "Adams", "female", "20"),
		bob:   env.CreateUser(t, "bob@school.edu", "Bob", "Brown", "male", "22"),
		carol: env.CreateUser(t, "carol@school.edu", "Carol", "Clark", "female", "21"),
	}
	f.post = &db.Post{
		ID: "post-1", UserID: f.bob.ID, Username: f.bob.Email, Title: "Leg day",
		WorkoutType: "strength", DateTime: "2030-01-01T10:00:00Z", Location: "McComas Hall",
		PartySize: "2", ExperienceLevel: "beginner",
	}
	require.NoError(t, env.App.DB.Create(f.post).Error)
	return f
}

func codeOf(err error) svcErr.Code { return svcErr.CodeOf(err) }

//
// Tests
//

func TestCreateProfileInterest_OnceOnly(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	req, err := f.svc.CreateProfileInterest(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusPending, req.Status)
	assert.Equal(t, db.KindProfile, req.Kind)
	assert.Empty(t, req.PostID)

	_, err = f.svc.CreateProfileInterest(ctx, f.alice.ID, f.bob.ID)
	assert.True(t, errors.Is(err, matching.ErrDuplicateRequest))
	assert.Equal(t, svcErr.CodeAlreadyExists, codeOf(err))

	// still a duplicate after resolution
	_, err = f.svc.Respond(ctx, req.ID, f.bob.ID, matching.Reject)
	require.NoError(t, err)
	_, err = f.svc.CreateProfileInterest(ctx, f.alice.ID, f.bob.ID)
	assert.ErrorIs(t, err, matching.ErrDuplicateRequest)

	// the reverse direction is a different pair
	_, err = f.svc.CreateProfileInterest(ctx, f.bob.ID, f.alice.ID)
	assert.NoError(t, err)
}

func TestCreateProfileInterest_Rejections(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.CreateProfileInterest(ctx, f.alice.ID, f.alice.ID)
	assert.ErrorIs(t, err, matching.ErrSelfReference)
	assert.Equal(t, svcErr.CodeInvalidArgument, codeOf(err))

	_, err = f.svc.CreateProfileInterest(ctx, f.alice.ID, "ghost")
	assert.ErrorIs(t, err, matching.ErrTargetNotFound)
	assert.Equal(t, svcErr.CodeNotFound, codeOf(err))

	_, err = f.svc.CreateProfileInterest(ctx, f.alice.ID, "")
	assert.Equal(t, svcErr.CodeInvalidArgument, codeOf(err))
}

func TestCreateJoinRequest(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.CreateJoinRequest(ctx, f.bob.ID, f.post.ID)
	assert.ErrorIs(t, err, matching.ErrSelfReference)

	_, err = f.svc.CreateJoinRequest(ctx, f.alice.ID, "missing")
	assert.ErrorIs(t, err, matching.ErrPostNotFound)
	assert.Equal(t, svcErr.CodeNotFound, codeOf(err))

	req, err := f.svc.CreateJoinRequest(ctx, f.alice.ID, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, req.ReceiverID)
	assert.Equal(t, f.post.ID, req.PostID)
	assert.Equal(t, db.KindPost, req.Kind)

	_, err = f.svc.CreateJoinRequest(ctx, f.alice.ID, f.post.ID)
	assert.ErrorIs(t, err, matching.ErrDuplicateRequest)

	// a profile interest between the same two users is independent
	_, err = f.svc.CreateProfileInterest(ctx, f.alice.ID, f.bob.ID)
	assert.NoError(t, err)
}

func TestRespond_ResolvesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	req, err := f.svc.CreateProfileInterest(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)

	// sender cannot self-approve, bystanders are denied too
	_, err = f.svc.Respond(ctx, req.ID, f.alice.ID, matching.Accept)
	assert.ErrorIs(t, err, matching.ErrForbidden)
	assert.Equal(t, svcErr.CodePermissionDenied, codeOf(err))
	_, err = f.svc.Respond(ctx, req.ID, f.carol.ID, matching.Accept)
	assert.ErrorIs(t, err, matching.ErrForbidden)

	_, err = f.svc.Respond(ctx, "nope", f.bob.ID, matching.Accept)
	assert.ErrorIs(t, err, matching.ErrRequestNotFound)

	resolved, err := f.svc.Respond(ctx, req.ID, f.bob.ID, matching.Accept)
	require.NoError(t, err)
	assert.Equal(t, db.StatusAccepted, resolved.Status)
	require.NotNil(t, resolved.RespondedAt)

	_, err = f.svc.Respond(ctx, req.ID, f.bob.ID, matching.Reject)
	assert.ErrorIs(t, err, matching.ErrAlreadyResolved)
	assert.Equal(t, svcErr.CodeConflict, codeOf(err))

	var stored db.InterestRequest
	require.NoError(t, f.env.App.DB.Where("id = ?", req.ID).First(&stored).Error)
	assert.Equal(t, db.StatusAccepted, stored.Status)
}

func TestRespond_ConcurrentDecisionsResolveOnce(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	req, err := f.svc.CreateJoinRequest(ctx, f.alice.ID, f.post.ID)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := matching.Accept
			if i%2 == 1 {
				d = matching.Reject
			}
			_, errs[i] = f.svc.Respond(ctx, req.ID, f.bob.ID, d)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, matching.ErrAlreadyResolved)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestRespond_AcceptNotifiesBothParties(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	req, err := f.svc.CreateJoinRequest(ctx, f.alice.ID, f.post.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, req.ID, f.bob.ID, matching.Accept)
	require.NoError(t, err)

	mail := f.env.WaitForMail(t, 2)
	var to []string
	for _, m := range mail {
		to = append(to, m.To...)
		assert.Contains(t, m.Body, "Leg day")
	}
	assert.ElementsMatch(t, []string{"alice@school.edu", "bob@school.edu"}, to)
}

func TestRespond_RejectSendsNothing(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	req, err := f.svc.CreateProfileInterest(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, req.ID, f.bob.ID, matching.Reject)
	require.NoError(t, err)

	require.NoError(t, f.env.App.Notifier.Wait(ctx))
	assert.Empty(t, f.env.Outbox.Messages())
}

func TestListForUser_InboxPolicy(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	// two profile interests to bob, one gets accepted
	pending, err := f.svc.CreateProfileInterest(ctx, f.alice.ID, f.bob.ID)
	require.NoError(t, err)
	accepted, err := f.svc.CreateProfileInterest(ctx, f.carol.ID, f.bob.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, accepted.ID, f.bob.ID, matching.Accept)
	require.NoError(t, err)

	// a join request to bob, rejected
	join, err := f.svc.CreateJoinRequest(ctx, f.alice.ID, f.post.ID)
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, join.ID, f.bob.ID, matching.Reject)
	require.NoError(t, err)

	inbox, err := f.svc.ListForUser(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Received, 2)
	assert.Equal(t, pending.ID, inbox.Received[0].ID)
	assert.Equal(t, join.ID, inbox.Received[1].ID)
	assert.Equal(t, db.StatusRejected, inbox.Received[1].Status)
	assert.Empty(t, inbox.Sent)

	// enrichment from the counterpart and the post
	assert.Equal(t, "Alice Adams", inbox.Received[0].SenderName)
	assert.Equal(t, "alice@school.edu", inbox.Received[0].SenderEmail)
	assert.Empty(t, inbox.Received[0].PostTitle)
	assert.Equal(t, "Leg day", inbox.Received[1].PostTitle)
	assert.Equal(t, "McComas Hall", inbox.Received[1].PostLocation)

	// carol still sees her accepted interest as sent
	carolInbox, err := f.svc.ListForUser(ctx, f.carol.ID)
	require.NoError(t, err)
	require.Len(t, carolInbox.Sent, 1)
	assert.Equal(t, db.StatusAccepted, carolInbox.Sent[0].Status)
	assert.Equal(t, "Bob Brown", carolInbox.Sent[0].ReceiverName)
	assert.Empty(t, carolInbox.Received)

	aliceInbox, err := f.svc.ListForUser(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, aliceInbox.Sent, 2)
}

func TestListForUser_DeletedPostDropsEnrichment(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	join, err := f.svc.CreateJoinRequest(ctx, f.alice.ID, f.post.ID)
	require.NoError(t, err)
	require.NoError(t, f.env.App.DB.Where("id = ?", f.post.ID).Delete(&db.Post{}).Error)

	inbox, err := f.svc.ListForUser(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, inbox.Sent, 1)
	assert.Equal(t, join.ID, inbox.Sent[0].ID)
	assert.Equal(t, f.post.ID, inbox.Sent[0].PostID)
	assert.Empty(t, inbox.Sent[0].PostTitle)
	assert.Equal(t, "Bob Brown", inbox.Sent[0].ReceiverName)
}

func TestListForUser_ReadsPostDetailsFresh(t *testing.T) {
	ctx := context.Background()
	f := setupService(t)

	_, err := f.svc.CreateJoinRequest(ctx, f.alice.ID, f.post.ID)
	require.NoError(t, err)
	require.NoError(t, f.env.App.DB.Model(&db.Post{}).Where("id = ?", f.post.ID).Update("title", "Pull day").Error)

	inbox, err := f.svc.ListForUser(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pull day", inbox.Sent[0].PostTitle)
}

func TestParseDecision(t *testing.T) {
	d, err := matching.ParseDecision("accept")
	require.NoError(t, err)
	assert.Equal(t, matching.Accept, d)

	_, err = matching.ParseDecision("maybe")
	assert.ErrorIs(t, err, matching.ErrInvalidDecision)
	assert.Equal(t, svcErr.CodeInvalidArgument, codeOf(err))
}
