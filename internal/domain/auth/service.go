package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/pkg/jwt"
	"github.com/billshome/billshome-api/internal/pkg/password"
)

// Service handles registration and login.
type Service struct {
	users  user.Repository
	tokens *jwt.Service
}

func NewService(users user.Repository, tokens *jwt.Service) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password and transaction
// PIN. Emails are stored lowercased so lookups are case-insensitive.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	if !password.IsValidPIN(req.Pin) {
		return nil, wallet.ErrInvalidPinFormat
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	pinHash, err := password.HashPIN(req.Pin)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		PINHash:      pinHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("user registered")
	return u, nil
}

// Login verifies credentials and issues an access token. Lookup misses and
// password mismatches collapse into the same error so responses don't leak
// which emails exist.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", user.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return nil, "", user.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user_id", u.ID.String()).Msg("user logged in")
	return u, token, nil
}
