package profile

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/billshome/billshome-api/internal/domain/auth"
	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/middleware"
	"github.com/billshome/billshome-api/internal/pkg/response"
)

// maxImageBytes caps profile uploads; images are stored inline as data
// URLs, so oversized uploads would bloat the users table.
const maxImageBytes = 2 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// BalanceReader exposes the wallet balance for the profile view.
type BalanceReader interface {
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Handler struct {
	users    user.Repository
	balances BalanceReader
}

func NewHandler(users user.Repository, balances BalanceReader) *Handler {
	return &Handler{users: users, balances: balances}
}

// Get handles GET /api/profile?userEmail=...
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("userEmail")
	if email == "" {
		response.BadRequest(w, "userEmail is required")
		return
	}

	u, ok := h.resolveUser(w, r, email)
	if !ok {
		return
	}

	balance, err := h.balances.Balance(r.Context(), u.ID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{
		"user":    auth.NewUserResponse(u),
		"balance": wallet.KoboToNaira(balance),
	})
}

// Upload handles POST /api/upload-profile-pic: a multipart image is
// re-encoded as a data URL and stored on the user row.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.BadRequest(w, "Invalid multipart body")
		return
	}

	email := r.FormValue("userEmail")
	if email == "" {
		response.BadRequest(w, "userEmail is required")
		return
	}

	u, ok := h.resolveUser(w, r, email)
	if !ok {
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImageBytes {
		response.BadRequest(w, "Image too large")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		response.InternalError(w)
		return
	}
	if len(data) > maxImageBytes {
		response.BadRequest(w, "Image too large")
		return
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		response.BadRequest(w, "Unsupported image type")
		return
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	if err := h.users.UpdateProfileImage(r.Context(), u.ID, dataURL); err != nil {
		response.InternalError(w)
		return
	}

	log.Info().Str("user_id", u.ID.String()).Str("content_type", contentType).Msg("profile image updated")
	response.Message(w, http.StatusOK, "Profile picture updated successfully")
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

// RegisterRoutes mounts the profile routes; the caller applies auth.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.Get)
	r.Post("/upload-profile-pic", h.Upload)
}
