package wallet

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/middleware"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
	"github.com/billshome/billshome-api/internal/pkg/response"
	"github.com/billshome/billshome-api/internal/pkg/validator"
)

type Handler struct {
	svc           *Service
	users         user.Repository
	webhookSecret string
}

func NewHandler(svc *Service, users user.Repository, webhookSecret string) *Handler {
	return &Handler{svc: svc, users: users, webhookSecret: webhookSecret}
}

// Deposit handles POST /api/deposit: PIN-gated payment link creation. The
// wallet is only credited later, by the provider's webhook.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	amount, err := NairaToKobo(req.Amount)
	if err != nil {
		response.BadRequest(w, "Invalid amount")
		return
	}

	u, ok := h.resolveUser(w, r, req.UserEmail)
	if !ok {
		return
	}

	link, err := h.svc.InitiateDeposit(r.Context(), u, req.Pin, amount)
	if err != nil {
		h.writeLedgerError(w, err, "Payment initiation failed")
		return
	}

	response.OK(w, map[string]string{"payment_link": link})
}

// Webhook handles POST /api/flutterwave-webhook. Authentication is a
// constant-time check of the verif-hash header; after that the response is
// always 200 regardless of processing outcome, so the provider stops
// retrying deliveries we have already absorbed.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(flutterwave.SignatureHeader)
	if !flutterwave.VerifyWebhookSignature(signature, h.webhookSecret) {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error().Err(err).Msg("webhook body read failed")
		response.Message(w, http.StatusOK, "Webhook received")
		return
	}
	defer r.Body.Close()

	payload, err := flutterwave.ParseWebhook(body)
	if err != nil {
		log.Warn().Err(err).Msg("webhook payload rejected")
		response.Message(w, http.StatusOK, "Webhook received")
		return
	}

	if err := h.svc.ConfirmDeposit(r.Context(), payload); err != nil {
		log.Error().Err(err).Str("tx_ref", payload.Data.TxRef).Msg("webhook processing failed")
	}

	response.Message(w, http.StatusOK, "Webhook received")
}

// ChangePin handles POST /api/change-pin
func (h *Handler) ChangePin(w http.ResponseWriter, r *http.Request) {
	var req ChangePinRequest
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

	if err := h.svc.ChangePin(r.Context(), u, req.CurrentPin, req.NewPin); err != nil {
		switch {
		case errors.Is(err, ErrInvalidPin):
			response.BadRequest(w, "Current PIN is incorrect")
		case errors.Is(err, ErrInvalidPinFormat):
			response.BadRequest(w, "New PIN must be 4 digits")
		case errors.Is(err, ErrTooManyPinAttempts):
			response.TooManyRequests(w)
		default:
			response.InternalError(w)
		}
		return
	}

	response.Message(w, http.StatusOK, "PIN changed successfully")
}

// Transactions handles GET /api/transactions?userEmail=...
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("userEmail")
	if email == "" {
		response.BadRequest(w, "userEmail is required")
		return
	}

	u, ok := h.resolveUser(w, r, email)
	if !ok {
		return
	}

	txs, err := h.svc.Transactions(r.Context(), u.ID)
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, NewTransactionResponse(t))
	}
	response.OK(w, map[string]interface{}{"transactions": out})
}

// writeLedgerError maps ledger errors onto the wire contract.
func (h *Handler) writeLedgerError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidPin):
		response.BadRequest(w, "Invalid PIN")
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "Invalid amount")
	case errors.Is(err, ErrInsufficientFunds):
		response.BadRequest(w, "Insufficient balance")
	case errors.Is(err, ErrTooManyPinAttempts):
		response.TooManyRequests(w)
	case errors.Is(err, ErrReferenceConflict), errors.Is(err, ErrDuplicateReference):
		response.Conflict(w, "Duplicate transaction reference")
	default:
		response.Message(w, http.StatusInternalServerError, fallback)
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

// RegisterRoutes mounts the wallet routes; the caller applies auth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/deposit", h.Deposit)
	r.Post("/change-pin", h.ChangePin)
	r.Get("/transactions", h.Transactions)
}

// RegisterWebhookRoutes mounts the unauthenticated provider callback.
func (h *Handler) RegisterWebhookRoutes(r chi.Router) {
	r.Post("/flutterwave-webhook", h.Webhook)
}
