package profiles

import (
	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/api"
	"github.com/oggyb/liftlink/internal/app"
)

// Registrar ties the profile browsing routes into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (reg *Registrar) RegisterRoutes(r chi.Router) {
	h := NewHandler(NewService(reg.appCtx))

	r.Group(func(r chi.Router) {
		r.Use(api.RequireUser(reg.appCtx.Sessions))
		r.Get("/profiles", h.List)
		r.Get("/profiles/{profileID}", h.Get)
	})
}
