package db

import (
	"time"
)

// User is an account keyed by its normalized (lower-cased) institutional email.
//
// Seq is an internal insertion counter used for stable ordering; ID is the
// opaque identifier exposed to clients.
type User struct {
	Seq          uint64     `gorm:"primaryKey;autoIncrement" json:"-"`
	ID           string     `gorm:"uniqueIndex;size:36;not null" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:320;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FirstName    string     `gorm:"size:100;not null" json:"first_name"`
	LastName     string     `gorm:"size:100;not null" json:"last_name"`
	Gender       *string    `gorm:"size:32" json:"gender"`
	Age          *string    `gorm:"size:8" json:"age"`
	Verified     bool       `gorm:"not null" json:"verified"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	EditedAt     *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// DisplayName is "First Last" with stray whitespace removed.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// GymProfile holds a user's training preferences. A profile may exist with
// only a bio when it was created through the account update path.
type GymProfile struct {
	UserID     string    `gorm:"primaryKey;size:36" json:"user_id"`
	Focus      *string   `gorm:"size:64" json:"focus"`
	Experience *string   `gorm:"size:64" json:"experience"`
	Bio        *string   `gorm:"size:200" json:"bio,omitempty"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Post is a workout-session invitation owned by one user.
//
// DateTime is kept as the client supplied it; an unparseable value never
// expires at read time.
type Post struct {
	Seq              uint64     `gorm:"primaryKey;autoIncrement" json:"-"`
	ID               string     `gorm:"uniqueIndex;size:36;not null" json:"id"`
	UserID           string     `gorm:"index;size:36;not null" json:"user_id"`
	Username         string     `gorm:"size:320" json:"username"`
	Title            string     `gorm:"size:200;not null" json:"title"`
	WorkoutType      string     `gorm:"size:64;not null" json:"workout_type"`
	DateTime         string     `gorm:"size:64;not null" json:"date_time"`
	Location         string     `gorm:"size:200;not null" json:"location"`
	PartySize        string     `gorm:"size:16;not null" json:"party_size"`
	ExperienceLevel  string     `gorm:"size:64;not null" json:"experience_level"`
	GenderPreference *string    `gorm:"size:32" json:"gender_preference"`
	Notes            *string    `gorm:"size:1000" json:"notes"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	EditedAt         *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

type RequestKind string

const (
	KindProfile RequestKind = "profile"
	KindPost    RequestKind = "post"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// InterestRequest is an interest-in-profile or request-to-join-post record.
//
// Unique index idx_request_pair(sender_id, receiver_id, kind, post_id):
//   - profile kind stores an empty post_id, so one row per (sender, receiver).
//   - post kind stores the post id, and receiver is the post owner at creation,
//     so one row per (sender, post).
//
// RespondedAt is set iff Status != pending.
type InterestRequest struct {
	Seq         uint64        `gorm:"primaryKey;autoIncrement" json:"-"`
	ID          string        `gorm:"uniqueIndex;size:36;not null" json:"id"`
	SenderID    string        `gorm:"size:36;not null;uniqueIndex:idx_request_pair,priority:1" json:"sender_id"`
	ReceiverID  string        `gorm:"size:36;not null;uniqueIndex:idx_request_pair,priority:2;index:idx_request_receiver" json:"receiver_id"`
	Kind        RequestKind   `gorm:"size:16;not null;uniqueIndex:idx_request_pair,priority:3" json:"type"`
	PostID      string        `gorm:"size:36;not null;uniqueIndex:idx_request_pair,priority:4" json:"post_id,omitempty"`
	Status      RequestStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}

// VerificationToken is a one-time email-ownership token.
type VerificationToken struct {
	ID         uint64     `gorm:"primaryKey;autoIncrement"`
	UserID     string     `gorm:"index;size:36;not null"`
	Token      string     `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt  time.Time  `gorm:"not null"`
	ConsumedAt *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// AllModels lists every table in migration (and reset) order.
func AllModels() []any {
	return []any{&User{}, &GymProfile{}, &Post{}, &InterestRequest{}, &VerificationToken{}}
}
