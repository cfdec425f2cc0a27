package dev

import (
	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/app"
)

// Registrar ties the reset/seed routes into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the dev utilities
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// RegisterRoutes attaches /reset and /seed. Outside development nothing
// is mounted, so both paths fall through to 404.
func (reg *Registrar) RegisterRoutes(r chi.Router) {
	if !reg.appCtx.Config.IsDevelopment() {
		return
	}
	h := NewHandler(NewService(reg.appCtx))
	r.Post("/reset", h.Reset)
	r.Post("/seed", h.Seed)
}
