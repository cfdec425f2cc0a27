package profiles

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/api"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/utils/pagination"
)

type listResponse struct {
	Profiles      []Profile `json:"profiles"`
	Count         int       `json:"count"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := pagination.ParseLimit(q.Get("limit"))
	if err != nil {
		api.Error(w, r, svcErr.InvalidArgument(err.Error()))
		return
	}

	profiles, next, err := h.svc.List(r.Context(), api.UserID(r.Context()), Filter{
		Gender:          q.Get("gender"),
		ExperienceLevel: q.Get("experience_level"),
		Focus:           q.Get("focus"),
		AgeMin:          q.Get("age_min"),
		AgeMax:          q.Get("age_max"),
		SameGenderOnly:  strings.EqualFold(q.Get("same_gender_only"), "true"),
	}, q.Get("page_token"), limit)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	api.JSON(w, http.StatusOK, listResponse{Profiles: profiles, Count: len(profiles), NextPageToken: next})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, p)
}
