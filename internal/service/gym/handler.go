package gym

import (
	"errors"
	"net/http"

	"github.com/oggyb/liftlink/internal/api"
)

type saveRequest struct {
	Focus      string  `json:"focus"`
	Experience string  `json:"experience"`
	Bio        *string `json:"bio"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeBody[saveRequest](r)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	p, err := h.svc.Save(r.Context(), api.UserID(r.Context()), req.Focus, req.Experience, req.Bio)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"message":  "Gym info saved successfully",
		"gym_info": p,
	})
}

// Get answers a missing profile with {"message": ...} rather than {"error": ...};
// the frontend treats it as an empty state.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), api.UserID(r.Context()))
	if errors.Is(err, ErrNoProfile) {
		api.Message(w, http.StatusNotFound, ErrNoProfile.Message)
		return
	} else if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, p)
}
