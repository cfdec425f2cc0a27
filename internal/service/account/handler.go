package account

import (
	"net/http"

	"github.com/oggyb/liftlink/internal/api"
	svcErr "github.com/oggyb/liftlink/internal/errors"
)

type registerRequest struct {
	Email     string         `json:"email" validate:"required"`
	Password  string         `json:"password" validate:"required"`
	FirstName string         `json:"first_name" validate:"required"`
	LastName  string         `json:"last_name" validate:"required"`
	Gender    string         `json:"gender"`
	Age       api.FlexString `json:"age"`
}

var registerMessages = api.Messages{
	"": "Missing required fields: email, password, first name, and last name are required",
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

type updateUserRequest struct {
	FirstName api.Field[string]         `json:"first_name"`
	LastName  api.Field[string]         `json:"last_name"`
	Gender    api.Field[string]         `json:"gender"`
	Age       api.Field[api.FlexString] `json:"age"`
	Bio       api.Field[string]         `json:"bio"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Handler exposes the account service over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeValidBody[registerRequest](r, registerMessages)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	res, err := h.svc.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Age:       req.Age.String(),
	})
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   res.Token,
		UserID:  res.UserID,
		Email:   res.Email,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeBody[loginRequest](r)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   res.Token,
		UserID:  res.UserID,
		Email:   res.Email,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), api.TokenFromRequest(r)); err != nil {
		api.Error(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Me(r.Context(), api.UserID(r.Context()))
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	req, err := api.DecodeBody[updateUserRequest](r)
	if err != nil {
		api.Error(w, r, err)
		return
	}

	var in UpdateInput
	// names are required columns, so an explicit null is ignored
	if req.FirstName.Set && !req.FirstName.Null {
		in.FirstName = &req.FirstName.Value
	}
	if req.LastName.Set && !req.LastName.Null {
		in.LastName = &req.LastName.Value
	}
	if req.Gender.Set {
		g := req.Gender.Ptr()
		in.Gender = &g
	}
	if req.Age.Set {
		var age *string
		if !req.Age.Null {
			age = optional(req.Age.Value.String())
		}
		in.Age = &age
	}
	if req.Bio.Set {
		b := req.Bio.Ptr()
		in.Bio = &b
	}

	user, err := h.svc.Update(r.Context(), api.UserID(r.Context()), in)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), api.UserID(r.Context())); err != nil {
		api.Error(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "Account deleted successfully")
}

// VerifyEmail accepts the token as JSON body or ?token= so the link in the
// email can be opened directly.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" && r.Method == http.MethodPost {
		req, err := api.DecodeBody[verifyRequest](r)
		if err != nil {
			api.Error(w, r, err)
			return
		}
		token = req.Token
	}

	already, err := h.svc.VerifyEmail(r.Context(), token)
	if err != nil {
		api.Error(w, r, err)
		return
	}
	msg := "Email verified successfully"
	if already {
		msg = "Email already verified"
	}
	api.JSON(w, http.StatusOK, map[string]any{
		"message":          msg,
		"already_verified": already,
	})
}

func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	err := h.svc.ResendVerification(r.Context(), api.UserID(r.Context()))
	if svcErr.CodeOf(err) == svcErr.CodeConflict {
		api.JSON(w, http.StatusConflict, map[string]any{
			"error":            "Email already verified",
			"already_verified": true,
		})
		return
	} else if err != nil {
		api.Error(w, r, err)
		return
	}
	api.Message(w, http.StatusOK, "Verification email sent")
}
