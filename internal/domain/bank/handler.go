package bank

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/middleware"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
	"github.com/billshome/billshome-api/internal/pkg/response"
	"github.com/billshome/billshome-api/internal/pkg/validator"
)

type Handler struct {
	svc   *Service
	users user.Repository
}

func NewHandler(svc *Service, users user.Repository) *Handler {
	return &Handler{svc: svc, users: users}
}

// Link handles POST /api/link-bank-account
func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, ok := h.resolveUser(w, r, req.UserEmail)
	if !ok {
		return
	}

	account, err := h.svc.Link(r.Context(), u, req.Pin, req.AccountNumber, req.AccountBank)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message": "Bank account linked successfully",
		"account": NewAccountResponse(*account),
	})
}

// List handles GET /api/bank-accounts?userEmail=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("userEmail")
	if email == "" {
		response.BadRequest(w, "userEmail is required")
		return
	}

	u, ok := h.resolveUser(w, r, email)
	if !ok {
		return
	}

	accounts, err := h.svc.List(r.Context(), u.ID)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, NewAccountResponse(a))
	}
	response.OK(w, map[string]interface{}{"bankAccounts": out})
}

// Remove handles POST /api/remove-bank-account
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req RemoveRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	u, ok := h.resolveUser(w, r, req.UserEmail)
	if !ok {
		return
	}

	if err := h.svc.Unlink(r.Context(), u, req.Pin, req.AccountNumber); err != nil {
		if errors.Is(err, ErrNotLinked) {
			response.NotFound(w, "Bank account not found")
			return
		}
		h.writeError(w, err)
		return
	}

	response.Message(w, http.StatusOK, "Bank account removed successfully")
}

// Charge handles POST /api/charge-bank-account
func (h *Handler) Charge(w http.ResponseWriter, r *http.Request) {
	var req ChargeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	amount, err := wallet.NairaToKobo(req.Amount)
	if err != nil {
		response.BadRequest(w, "Invalid amount")
		return
	}

	u, ok := h.resolveUser(w, r, req.UserEmail)
	if !ok {
		return
	}

	reference, balance, err := h.svc.ChargeAccount(r.Context(), u, req.Pin, req.AccountNumber, amount, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message":   "Payment successful",
		"balance":   wallet.KoboToNaira(balance),
		"reference": reference,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrInvalidPin):
		response.BadRequest(w, "Invalid PIN")
	case errors.Is(err, wallet.ErrTooManyPinAttempts):
		response.TooManyRequests(w)
	case errors.Is(err, wallet.ErrInvalidAmount):
		response.BadRequest(w, "Invalid amount")
	case errors.Is(err, ErrNotLinked):
		response.BadRequest(w, "Bank account not linked")
	case errors.Is(err, ErrAlreadyLinked):
		response.Conflict(w, "Bank account already linked")
	case errors.Is(err, flutterwave.ErrGatewayFailure):
		response.BadRequest(w, "Invalid bank account details")
	case errors.Is(err, flutterwave.ErrDuplicateReference):
		response.Conflict(w, "Duplicate transaction reference")
	default:
		response.InternalError(w)
	}
}

func (h *Handler) resolveUser(w http.ResponseWriter, r *http.Request, email string) (*user.User, bool) {
	if !middleware.AuthorizeEmail(r.Context(), email) {
		response.Forbidden(w, "Token does not match requested account")
		return nil, false
	}
	u, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, "No user found")
		} else {
			response.InternalError(w)
		}
		return nil, false
	}
	return u, true
}

// RegisterRoutes mounts the bank account routes; the caller applies auth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/link-bank-account", h.Link)
	r.Get("/bank-accounts", h.List)
	r.Post("/remove-bank-account", h.Remove)
	r.Post("/charge-bank-account", h.Charge)
}
