// Package dev holds the development-only reset and seed utilities.
package dev

import (
	"context"
	"fmt"

	"github.com/oggyb/liftlink/internal/app"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
)

type Service struct {
	appCtx *app.AppContext
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// Reset empties every table and drops all sessions.
func (s *Service) Reset(ctx context.Context) error {
	err := s.appCtx.Exclusive(func() error {
		if err := db.Reset(s.appCtx.DB); err != nil {
			return err
		}
		return s.appCtx.Sessions.Flush(ctx)
	})
	if err != nil {
		s.appCtx.Logger.Error("reset failed", "err", err)
		return svcErr.Map(err)
	}
	s.appCtx.Logger.Warn("all data reset")
	return nil
}

// Seed replaces the store content with demo data. Existing sessions are
// dropped since the users they point at are gone.
func (s *Service) Seed(ctx context.Context) (db.SeedSummary, error) {
	var summary db.SeedSummary
	err := s.appCtx.Exclusive(func() error {
		var err error
		if summary, err = db.SeedDemoData(s.appCtx.DB, s.appCtx.Now()); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		return s.appCtx.Sessions.Flush(ctx)
	})
	if err != nil {
		s.appCtx.Logger.Error("seed failed", "err", err)
		return db.SeedSummary{}, svcErr.Map(err)
	}
	s.appCtx.Logger.Info("demo data seeded", "users", summary.Users, "posts", summary.Posts, "requests", summary.Requests)
	return summary, nil
}
