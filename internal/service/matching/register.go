package matching

import (
	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/api"
	"github.com/oggyb/liftlink/internal/app"
)

// Registrar ties the request/match routes into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the matching service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// RegisterRoutes attaches the request endpoints to r
func (reg *Registrar) RegisterRoutes(r chi.Router) {
	h := NewHandler(NewService(reg.appCtx))

	r.Group(func(r chi.Router) {
		r.Use(api.RequireUser(reg.appCtx.Sessions))
		r.Post("/profiles/interest", h.ExpressInterest)
		r.Post("/posts/{postID}/request", h.RequestToJoin)
		r.Get("/requests", h.List)
		r.Post("/requests/{requestID}/respond", h.Respond)
	})
}
