package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/pkg/response"
	"github.com/billshome/billshome-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register handles POST /api/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	if _, err := h.svc.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, user.ErrEmailAlreadyExists):
			response.BadRequest(w, "User already exists")
		case errors.Is(err, wallet.ErrInvalidPinFormat):
			response.BadRequest(w, "PIN must be 4 digits")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Message(w, http.StatusCreated, "User registered successfully")
}

// Login handles POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid credentials")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, LoginResponse{User: NewUserResponse(u), Token: token})
}

// RegisterRoutes mounts the unauthenticated auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}
