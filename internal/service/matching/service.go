package matching

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/notify"
	"github.com/oggyb/liftlink/internal/repository"
)

// Decision is the receiver's answer to a pending request.
type Decision string

const (
	Accept Decision = "accept"
	Reject Decision = "reject"
)

// ParseDecision accepts "accept" or "reject".
func ParseDecision(s string) (Decision, error) {
	switch Decision(s) {
	case Accept, Reject:
		return Decision(s), nil
	}
	return "", svcErr.Wrap(svcErr.CodeInvalidArgument, `Response must be "accept" or "reject"`, ErrInvalidDecision)
}

func (d Decision) status() db.RequestStatus {
	if d == Accept {
		return db.StatusAccepted
	}
	return db.StatusRejected
}

// Service is the request/match engine: profile interests and join requests
// between users, and their one-time accept/reject resolution.
type Service struct {
	appCtx   *app.AppContext
	requests *repository.RequestRepository
	users    *repository.UserRepository
	posts    *repository.PostRepository
}

// NewService creates the engine with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		requests: repository.NewRequestRepository(appCtx.DB),
		users:    repository.NewUserRepository(appCtx.DB),
		posts:    repository.NewPostRepository(appCtx.DB),
	}
}

// CreateProfileInterest records that sender is interested in target.
//
// Behavior:
//   - Self-interest fails ErrSelfReference.
//   - Unknown targets fail ErrTargetNotFound.
//   - A second interest for the same pair fails ErrDuplicateRequest,
//     whatever happened to the first one.
//
// Example:
//
//	req, err := svc.CreateProfileInterest(ctx, "alice-id", "bob-id") // -> pending request
func (s *Service) CreateProfileInterest(ctx context.Context, senderID, targetID string) (*db.InterestRequest, error) {
	s.appCtx.Logger.Debug("CreateProfileInterest called", "sender", senderID, "target", targetID)

	if targetID == "" {
		return nil, svcErr.InvalidArgument("Profile ID required")
	}
	if targetID == senderID {
		return nil, svcErr.Wrap(svcErr.CodeInvalidArgument, "Cannot express interest in your own profile", ErrSelfReference)
	}

	req := &db.InterestRequest{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: targetID,
		Kind:       db.KindProfile,
		Status:     db.StatusPending,
	}
	err := s.appCtx.Exclusive(func() error {
		exists, err := s.users.Exists(ctx, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return svcErr.Wrap(svcErr.CodeNotFound, "Profile not found", ErrTargetNotFound)
		}

		dup, err := s.requests.HasProfileInterest(ctx, senderID, targetID)
		if err != nil {
			return err
		}
		if dup {
			return svcErr.Wrap(svcErr.CodeAlreadyExists, "Interest already expressed", ErrDuplicateRequest)
		}

		req.CreatedAt = s.appCtx.Now()
		return s.requests.Create(ctx, req)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, svcErr.Wrap(svcErr.CodeAlreadyExists, "Interest already expressed", ErrDuplicateRequest)
	} else if err != nil {
		return nil, s.fail("CreateProfileInterest", err)
	}
	return req, nil
}

// CreateJoinRequest asks the owner of postID to let sender join.
// The receiver is the post owner at the time of the call.
func (s *Service) CreateJoinRequest(ctx context.Context, senderID, postID string) (*db.InterestRequest, error) {
	s.appCtx.Logger.Debug("CreateJoinRequest called", "sender", senderID, "post", postID)

	var req *db.InterestRequest
	err := s.appCtx.Exclusive(func() error {
		post, err := s.posts.GetByID(ctx, postID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.Wrap(svcErr.CodeNotFound, "Post not found", ErrPostNotFound)
		} else if err != nil {
			return err
		}
		if post.UserID == senderID {
			return svcErr.Wrap(svcErr.CodeInvalidArgument, "Cannot request to join your own post", ErrSelfReference)
		}

		dup, err := s.requests.HasJoinRequest(ctx, senderID, postID)
		if err != nil {
			return err
		}
		if dup {
			return svcErr.Wrap(svcErr.CodeAlreadyExists, "Request already sent", ErrDuplicateRequest)
		}

		req = &db.InterestRequest{
			ID:         uuid.NewString(),
			SenderID:   senderID,
			ReceiverID: post.UserID,
			Kind:       db.KindPost,
			PostID:     post.ID,
			Status:     db.StatusPending,
			CreatedAt:  s.appCtx.Now(),
		}
		return s.requests.Create(ctx, req)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, svcErr.Wrap(svcErr.CodeAlreadyExists, "Request already sent", ErrDuplicateRequest)
	} else if err != nil {
		return nil, s.fail("CreateJoinRequest", err)
	}
	return req, nil
}

// Respond resolves a pending request on behalf of its receiver.
//
// Behavior:
//   - Unknown ids fail ErrRequestNotFound.
//   - Anyone but the receiver (the sender included) fails ErrForbidden.
//   - A request that is no longer pending fails ErrAlreadyResolved and keeps
//     its status.
//   - On accept, a match email goes to both parties in the background;
//     delivery problems are logged and never undo the transition.
func (s *Service) Respond(ctx context.Context, requestID, actingUserID string, decision Decision) (*db.InterestRequest, error) {
	s.appCtx.Logger.Debug("Respond called", "request", requestID, "user", actingUserID, "decision", decision)

	var resolved *db.InterestRequest
	err := s.appCtx.Exclusive(func() error {
		req, err := s.requests.GetByID(ctx, requestID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.Wrap(svcErr.CodeNotFound, "Request not found", ErrRequestNotFound)
		} else if err != nil {
			return err
		}
		if req.ReceiverID != actingUserID {
			return svcErr.Wrap(svcErr.CodePermissionDenied, "Unauthorized", ErrForbidden)
		}
		if req.Status != db.StatusPending {
			return svcErr.Wrap(svcErr.CodeConflict, "Request already responded to", ErrAlreadyResolved)
		}

		now := s.appCtx.Now()
		ok, err := s.requests.Resolve(ctx, req.ID, decision.status(), now)
		if err != nil {
			return err
		}
		if !ok {
			return svcErr.Wrap(svcErr.CodeConflict, "Request already responded to", ErrAlreadyResolved)
		}
		req.Status = decision.status()
		req.RespondedAt = &now
		resolved = req
		return nil
	})
	if err != nil {
		return nil, s.fail("Respond", err)
	}

	if decision == Accept {
		s.notifyMatch(ctx, resolved)
	}
	return resolved, nil
}

// RequestView is a request enriched with details of the counterpart and,
// for join requests, the post as it is now.
type RequestView struct {
	db.InterestRequest
	SenderName    string `json:"sender_name,omitempty"`
	SenderEmail   string `json:"sender_email,omitempty"`
	ReceiverName  string `json:"receiver_name,omitempty"`
	ReceiverEmail string `json:"receiver_email,omitempty"`
	PostTitle     string `json:"post_title,omitempty"`
	PostDateTime  string `json:"post_date_time,omitempty"`
	PostLocation  string `json:"post_location,omitempty"`
}

// Inbox is the result of ListForUser.
type Inbox struct {
	Received []RequestView `json:"received"`
	Sent     []RequestView `json:"sent"`
}

// ListForUser returns the user's received and sent requests in creation order.
//
// Behavior:
//   - received keeps join requests at every status but profile interests
//     only while pending; a resolved interest leaves the inbox.
//   - sent is unfiltered.
//   - Enrichment is read fresh on every call. A deleted post or user just
//     leaves the corresponding fields empty.
func (s *Service) ListForUser(ctx context.Context, userID string) (*Inbox, error) {
	received, err := s.requests.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, s.fail("ListForUser", err)
	}
	sent, err := s.requests.ListBySender(ctx, userID)
	if err != nil {
		return nil, s.fail("ListForUser", err)
	}

	inbox := make([]db.InterestRequest, 0, len(received))
	for _, r := range received {
		if r.Kind == db.KindPost || r.Status == db.StatusPending {
			inbox = append(inbox, r)
		}
	}

	userIDs := make([]string, 0, len(inbox)+len(sent))
	postIDs := make([]string, 0)
	for _, r := range inbox {
		userIDs = append(userIDs, r.SenderID)
		if r.PostID != "" {
			postIDs = append(postIDs, r.PostID)
		}
	}
	for _, r := range sent {
		userIDs = append(userIDs, r.ReceiverID)
		if r.PostID != "" {
			postIDs = append(postIDs, r.PostID)
		}
	}
	users, err := s.users.GetMany(ctx, userIDs)
	if err != nil {
		return nil, s.fail("ListForUser", err)
	}
	posts, err := s.posts.GetMany(ctx, postIDs)
	if err != nil {
		return nil, s.fail("ListForUser", err)
	}

	out := &Inbox{
		Received: make([]RequestView, 0, len(inbox)),
		Sent:     make([]RequestView, 0, len(sent)),
	}
	for _, r := range inbox {
		v := RequestView{InterestRequest: r}
		if u, ok := users[r.SenderID]; ok {
			v.SenderName, v.SenderEmail = u.DisplayName(), u.Email
		}
		enrichPost(&v, posts)
		out.Received = append(out.Received, v)
	}
	for _, r := range sent {
		v := RequestView{InterestRequest: r}
		if u, ok := users[r.ReceiverID]; ok {
			v.ReceiverName, v.ReceiverEmail = u.DisplayName(), u.Email
		}
		enrichPost(&v, posts)
		out.Sent = append(out.Sent, v)
	}

	s.appCtx.Logger.Debug("ListForUser result", "user", userID, "received", len(out.Received), "sent", len(out.Sent))
	return out, nil
}

func enrichPost(v *RequestView, posts map[string]db.Post) {
	if v.Kind != db.KindPost {
		return
	}
	if p, ok := posts[v.PostID]; ok {
		v.PostTitle, v.PostDateTime, v.PostLocation = p.Title, p.DateTime, p.Location
	}
}

// notifyMatch emails both parties. Lookup failures are logged; the request
// is already resolved at this point.
func (s *Service) notifyMatch(ctx context.Context, req *db.InterestRequest) {
	if s.appCtx.Notifier == nil {
		return
	}
	log := s.appCtx.Logger.With("request", req.ID)

	users, err := s.users.GetMany(ctx, []string{req.SenderID, req.ReceiverID})
	if err != nil {
		log.Error("match notification skipped", "err", err)
		return
	}
	sender, okS := users[req.SenderID]
	receiver, okR := users[req.ReceiverID]
	if !okS || !okR {
		log.Warn("match notification skipped, party missing")
		return
	}

	var title string
	if req.Kind == db.KindPost {
		if p, err := s.posts.GetByID(ctx, req.PostID); err == nil {
			title = p.Title
		}
	}

	a := notify.MatchParty{Name: displayOrEmail(&sender), Email: sender.Email}
	b := notify.MatchParty{Name: displayOrEmail(&receiver), Email: receiver.Email}
	s.appCtx.Notifier.Dispatch("match", notify.MatchEmail(a, b, title))
	s.appCtx.Notifier.Dispatch("match", notify.MatchEmail(b, a, title))
}

func displayOrEmail(u *db.User) string {
	if name := strings.TrimSpace(u.DisplayName()); name != "" {
		return name
	}
	return u.Email
}

// fail logs unexpected errors and maps everything to an AppError.
func (s *Service) fail(op string, err error) error {
	mapped := svcErr.Map(err)
	if mapped.Code == svcErr.CodeInternal {
		s.appCtx.Logger.Error(op+" failed", "err", err)
	}
	return mapped
}
