package account

import (
	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/api"
	"github.com/oggyb/liftlink/internal/app"
)

// Registrar ties the account routes into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the account service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// RegisterRoutes attaches the account endpoints to r.
// /register and /login are throttled per client IP.
func (reg *Registrar) RegisterRoutes(r chi.Router) {
	h := NewHandler(NewService(reg.appCtx))

	r.Group(func(r chi.Router) {
		r.Use(api.RateLimit(reg.appCtx.Config.HTTP.AuthRateLimit))
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
	r.Post("/logout", h.Logout)
	r.Get("/verify-email", h.VerifyEmail)
	r.Post("/verify-email", h.VerifyEmail)

	r.Group(func(r chi.Router) {
		r.Use(api.RequireUser(reg.appCtx.Sessions))
		r.Get("/user", h.GetUser)
		r.Put("/user", h.UpdateUser)
		r.Delete("/user", h.DeleteUser)
		r.Post("/resend-verification", h.ResendVerification)
	})
}
