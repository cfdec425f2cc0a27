package posts

import (
	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/api"
	"github.com/oggyb/liftlink/internal/app"
)

// Registrar ties the post routes into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// RegisterRoutes attaches /posts. Join requests on /posts/{postID}/request
// are registered by the matching service.
func (reg *Registrar) RegisterRoutes(r chi.Router) {
	h := NewHandler(NewService(reg.appCtx))

	r.Group(func(r chi.Router) {
		r.Use(api.RequireUser(reg.appCtx.Sessions))
		r.Get("/posts", h.List)
		r.Post("/posts", h.Create)
		r.Get("/posts/my-posts", h.ListMine)
		r.Get("/posts/{postID}", h.Get)
		r.Put("/posts/{postID}", h.Update)
		r.Delete("/posts/{postID}", h.Delete)
	})
}
