package billpay

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/billshome/billshome-api/internal/domain/bank"
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

// Airtime handles POST /api/airtime
func (h *Handler) Airtime(w http.ResponseWriter, r *http.Request) {
	var req AirtimeRequest
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

	result, err := h.svc.PurchaseAirtime(r.Context(), u, req, amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResult(w, result, fmt.Sprintf("Airtime of ₦%v purchased for %s on %s", req.Amount, req.Phone, req.Network))
}

// Data handles POST /api/data
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	var req DataRequest
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

	result, err := h.svc.PurchaseData(r.Context(), u, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResult(w, result, fmt.Sprintf("%s data purchased for %s", req.Plan, req.Phone))
}

// Bet handles POST /api/bet
func (h *Handler) Bet(w http.ResponseWriter, r *http.Request) {
	var req BetRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	stake, err := wallet.NairaToKobo(req.Stake)
	if err != nil {
		response.BadRequest(w, "Invalid amount")
		return
	}

	u, ok := h.resolveUser(w, r, req.UserEmail)
	if !ok {
		return
	}

	result, err := h.svc.PlaceBet(r.Context(), u, req, stake)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResult(w, result, fmt.Sprintf("Bet placed with stake ₦%v at odds %v", req.Stake, req.Odds))
}

// Tv handles POST /api/tv
func (h *Handler) Tv(w http.ResponseWriter, r *http.Request) {
	var req TvRequest
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

	result, err := h.svc.PurchaseTv(r.Context(), u, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeResult(w, result, fmt.Sprintf("%s subscription for %s activated", req.Provider, req.Smartcard))
}

func (h *Handler) writeResult(w http.ResponseWriter, result *Result, message string) {
	response.OK(w, map[string]interface{}{
		"message":   message,
		"balance":   wallet.KoboToNaira(result.Balance),
		"reference": result.Reference,
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidPlan):
		response.BadRequest(w, "Invalid plan")
	case errors.Is(err, wallet.ErrInvalidPin):
		response.BadRequest(w, "Invalid PIN")
	case errors.Is(err, wallet.ErrTooManyPinAttempts):
		response.TooManyRequests(w)
	case errors.Is(err, wallet.ErrInvalidAmount):
		response.BadRequest(w, "Invalid amount")
	case errors.Is(err, wallet.ErrInsufficientFunds):
		response.BadRequest(w, "Insufficient balance")
	case errors.Is(err, bank.ErrNotLinked):
		response.BadRequest(w, "Bank account not linked")
	case errors.Is(err, wallet.ErrReferenceConflict), errors.Is(err, wallet.ErrDuplicateReference):
		response.Conflict(w, "Duplicate transaction reference")
	case errors.Is(err, flutterwave.ErrGatewayFailure):
		response.BadRequest(w, "Bill payment failed")
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

// RegisterRoutes mounts the bill purchase routes; the caller applies auth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/airtime", h.Airtime)
	r.Post("/data", h.Data)
	r.Post("/bet", h.Bet)
	r.Post("/tv", h.Tv)
}
