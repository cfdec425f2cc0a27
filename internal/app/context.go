package app

import (
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/liftlink/internal/config"
	"github.com/oggyb/liftlink/internal/notify"
	"github.com/oggyb/liftlink/internal/session"
)

// AppContext holds shared dependencies (DB, sessions, notifications, logger, etc.)
type AppContext struct {
	Config   *config.Config
	DB       *gorm.DB
	Sessions session.Store
	Notifier *notify.Dispatcher
	Logger   *slog.Logger

	// Now is the clock used for timestamps and post expiry.
	Now func() time.Time

	mu sync.Mutex
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, sessions session.Store, notifier *notify.Dispatcher, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:   cfg,
		DB:       db,
		Sessions: sessions,
		Notifier: notifier,
		Logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Exclusive runs fn while holding the store lock.
// Every check-then-act mutation goes through here so concurrent requests
// cannot interleave between the check and the write.
func (a *AppContext) Exclusive(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn()
}
