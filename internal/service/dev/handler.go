package dev

import (
	"net/http"

	"github.com/oggyb/liftlink/internal/api"
	"github.com/oggyb/liftlink/internal/db"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		api.Error(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "All data reset successfully")
}

type seedResponse struct {
	Message  string         `json:"message"`
	Summary  db.SeedSummary `json:"summary"`
	Password string         `json:"password"`
}

func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Seed(r.Context())
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, seedResponse{
		Message:  "Demo data seeded successfully",
		Summary:  summary,
		Password: db.DemoPassword,
	})
}
