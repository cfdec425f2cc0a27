// Package apptest wires an AppContext on isolated in-memory backends for tests.
package apptest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/config"
	"github.com/oggyb/liftlink/internal/db"
	"github.com/oggyb/liftlink/internal/logger"
	"github.com/oggyb/liftlink/internal/notify"
	"github.com/oggyb/liftlink/internal/session"
)

// Outbox records every message handed to the dispatcher.
type Outbox struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (o *Outbox) Send(_ context.Context, msg notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

// Messages returns a snapshot of what was sent so far.
func (o *Outbox) Messages() []notify.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]notify.Message(nil), o.sent...)
}

// Env is a ready-to-use AppContext plus its test doubles.
type Env struct {
	App    *app.AppContext
	Outbox *Outbox
}

// New spins up an in-memory SQLite DB and a memory session store and wires
// them into an AppContext. Logs are discarded. Each test gets its own DB.
func New(t *testing.T) *Env {
	t.Helper()

	database, err := db.NewMemoryDB(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })

	cfg := config.New()
	cfg.App.ENV = "development"
	cfg.HTTP.AuthRateLimit = 0

	log := logger.Discard()
	outbox := &Outbox{}
	dispatcher := notify.NewDispatcher(outbox, log)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.Wait(ctx)
	})

	return &Env{
		App:    app.New(cfg, database, session.NewMemoryStore(0), dispatcher, log),
		Outbox: outbox,
	}
}

// CreateUser inserts a verified user directly and returns it.
func (e *Env) CreateUser(t *testing.T, email, first, last, gender, age string) *db.User {
	t.Helper()
	u := &db.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "x",
		FirstName:    first,
		LastName:     last,
		Verified:     true,
	}
	if gender != "" {
		u.Gender = &gender
	}
	if age != "" {
		u.Age = &age
	}
	require.NoError(t, e.App.DB.Create(u).Error)
	return u
}

// Login issues a session token for userID.
func (e *Env) Login(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.App.Sessions.Create(context.Background(), userID)
	require.NoError(t, err)
	return token
}

// WaitForMail blocks until at least n messages were sent.
func (e *Env) WaitForMail(t *testing.T, n int) []notify.Message {
	t.Helper()
	require.Eventually(t, func() bool { return len(e.Outbox.Messages()) >= n }, 2*time.Second, 10*time.Millisecond)
	return e.Outbox.Messages()
}
