package posts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/api"
	"github.com/oggyb/liftlink/internal/db"
	svcErr "github.com/oggyb/liftlink/internal/errors"
	"github.com/oggyb/liftlink/internal/utils/pagination"
)

type createRequest struct {
	Title            string         `json:"title" validate:"required"`
	WorkoutType      string         `json:"workout_type" validate:"required"`
	DateTime         string         `json:"date_time" validate:"required"`
	Location         string         `json:"location" validate:"required"`
	PartySize        api.FlexString `json:"party_size" validate:"required"`
	ExperienceLevel  string         `json:"experience_level" validate:"required"`
	GenderPreference *string        `json:"gender_preference"`
	Notes            *string        `json:"notes"`
}

var createMessages = api.Messages{"": "Missing required fields"}

type updateRequest struct {
	Title            api.Field[string]         `json:"title"`
	WorkoutType      api.Field[string]         `json:"workout_type"`
	DateTime         api.Field[string]         `json:"date_time"`
	Location         api.Field[string]         `json:"location"`
	PartySize        api.Field[api.FlexString] `json:"party_size"`
	ExperienceLevel  api.Field[string]         `json:"experience_level"`
	GenderPreference api.Field[string]         `json:"gender_preference"`
	Notes            api.Field[string]         `json:"notes"`
}

type listResponse struct {
	Posts         []db.Post `json:"posts"`
	Count         int       `json:"count"`
	NextPageToken string    `json:"next_page_token,omitempty"`
}

func newListResponse(posts []db.Post, next string) listResponse {
	if posts == nil {
		posts = []db.Post{}
	}
	return listResponse{Posts: posts, Count: len(posts), NextPageToken: next}
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeValidBody[createRequest](r, createMessages)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), api.UserID(r.Context()), CreateInput{
		Title:            req.Title,
		WorkoutType:      req.WorkoutType,
		DateTime:         req.DateTime,
		Location:         req.Location,
		PartySize:        req.PartySize.String(),
		ExperienceLevel:  req.ExperienceLevel,
		GenderPreference: req.GenderPreference,
		Notes:            req.Notes,
	})
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusCreated, map[string]any{
		"message": "Post created successfully",
		"post":    p,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := pagination.ParseLimit(q.Get("limit"))
	if err != nil {
		api.Error(w, r, svcErr.InvalidArgument(err.Error()))
		return
	}
	res, err := h.svc.List(r.Context(), Filter{
		WorkoutType:      q.Get("workout_type"),
		Location:         q.Get("location"),
		ExperienceLevel:  q.Get("experience_level"),
		GenderPreference: q.Get("gender_preference"),
		PartySize:        q.Get("party_size"),
	}, q.Get("page_token"), limit)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, newListResponse(res.Posts, res.NextPageToken))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListMine(r.Context(), api.UserID(r.Context()))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, newListResponse(posts, ""))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "postID"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeBody[updateRequest](r)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	in := UpdateInput{
		Title:           required(req.Title),
		WorkoutType:     required(req.WorkoutType),
		DateTime:        required(req.DateTime),
		Location:        required(req.Location),
		ExperienceLevel: required(req.ExperienceLevel),
	}
	if req.PartySize.Set && !req.PartySize.Null {
		size := req.PartySize.Value.String()
		in.PartySize = &size
	}
	if req.GenderPreference.Set {
		g := req.GenderPreference.Ptr()
		in.GenderPreference = &g
	}
	if req.Notes.Set {
		n := req.Notes.Ptr()
		in.Notes = &n
	}

	p, err := h.svc.Update(r.Context(), api.UserID(r.Context()), chi.URLParam(r, "postID"), in)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"message": "Post updated successfully",
		"post":    p,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), api.UserID(r.Context()), chi.URLParam(r, "postID")); err != nil {
		api.Error(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "Post deleted successfully")
}

// required ignores an explicit null for a non-nullable column.
func required(f api.Field[string]) *string {
	if !f.Set || f.Null {
		return nil
	}
	return &f.Value
}
