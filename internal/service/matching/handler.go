package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oggyb/liftlink/internal/api"
)

type interestRequest struct {
	ProfileID string `json:"profile_id"`
}

type respondRequest struct {
	Response string `json:"response"`
}

type createdResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// Handler exposes the engine over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ExpressInterest(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeBody[interestRequest](r)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	created, err := h.svc.CreateProfileInterest(r.Context(), api.UserID(r.Context()), req.ProfileID)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, createdResponse{
		Message:   "Interest expressed successfully",
		RequestID: created.ID,
		Status:    string(created.Status),
	})
}

func (h *Handler) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	created, err := h.svc.CreateJoinRequest(r.Context(), api.UserID(r.Context()), chi.URLParam(r, "postID"))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, createdResponse{
		Message:   "Request to join sent successfully",
		RequestID: created.ID,
		Status:    string(created.Status),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	inbox, err := h.svc.ListForUser(r.Context(), api.UserID(r.Context()))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, inbox)
}

func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeBody[respondRequest](r)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	decision, err := ParseDecision(req.Response)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	resolved, err := h.svc.Respond(r.Context(), chi.URLParam(r, "requestID"), api.UserID(r.Context()), decision)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"message": "Request " + string(resolved.Status) + " successfully",
		"request": resolved,
	})
}
