package wallet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
	"github.com/billshome/billshome-api/internal/pkg/password"
)

// depositReferencePrefix tags deposit payment links so webhook events for
// other charge kinds are ignored.
const depositReferencePrefix = "deposit-"

// PaymentInitiator requests hosted checkout sessions from the gateway.
type PaymentInitiator interface {
	CreatePaymentLink(ctx context.Context, req flutterwave.PaymentLinkRequest) (*flutterwave.PaymentLink, error)
}

// Service is the ledger engine: PIN-gated balance mutations with an
// append-only transaction trail, plus the deposit confirmation flow.
type Service struct {
	repo        *Repository
	users       user.Repository
	gateway     PaymentInitiator
	limiter     *PinLimiter
	redirectURL string
}

func NewService(repo *Repository, users user.Repository, gateway PaymentInitiator, limiter *PinLimiter, redirectURL string) *Service {
	return &Service{
		repo:        repo,
		users:       users,
		gateway:     gateway,
		limiter:     limiter,
		redirectURL: redirectURL,
	}
}

// VerifyPIN checks a transaction PIN against the stored hash. Failed
// attempts count toward the per-user limiter; the PIN itself is never
// logged.
func (s *Service) VerifyPIN(ctx context.Context, u *user.User, pin string) error {
	subject := u.ID.String()

	exceeded, err := s.limiter.Exceeded(ctx, subject)
	if err != nil {
		log.Warn().Err(err).Msg("pin limiter unavailable, continuing without it")
	} else if exceeded {
		return ErrTooManyPinAttempts
	}

	if !password.VerifyPIN(pin, u.PINHash) {
		if err := s.limiter.RecordFailure(ctx, subject); err != nil {
			log.Warn().Err(err).Msg("pin limiter record failed")
		}
		return ErrInvalidPin
	}

	if err := s.limiter.Reset(ctx, subject); err != nil {
		log.Warn().Err(err).Msg("pin limiter reset failed")
	}
	return nil
}

// Credit applies a provider-confirmed inflow. Never reachable from a
// client-asserted request; only the webhook flow and settled bank charges
// call it.
func (s *Service) Credit(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string, metadata Metadata) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := s.repo.Credit(ctx, userID, amount, txType, referenceID, metadata); err != nil {
		return err
	}
	log.Info().Str("user_id", userID.String()).Int64("amount", amount).Str("type", string(txType)).Str("reference", referenceID).Msg("wallet credit applied")
	return nil
}

// Debit verifies the PIN and atomically moves the balance: no other
// debit/credit on the same user can interleave between the sufficiency
// check and the mutation.
func (s *Service) Debit(ctx context.Context, u *user.User, pin string, amount int64, txType TransactionType, referenceID string, metadata Metadata) error {
	if amount <= 0 || referenceID == "" {
		return ErrInvalidAmount
	}
	if err := s.VerifyPIN(ctx, u, pin); err != nil {
		return err
	}
	if err := s.repo.Debit(ctx, u.ID, amount, txType, referenceID, metadata); err != nil {
		return err
	}
	log.Info().Str("user_id", u.ID.String()).Int64("amount", amount).Str("type", string(txType)).Str("reference", referenceID).Msg("wallet debit applied")
	return nil
}

// Refund compensates a debit whose downstream gateway call failed, keyed by
// a reference derived from the original so replays stay idempotent.
func (s *Service) Refund(ctx context.Context, userID uuid.UUID, amount int64, referenceID string, metadata Metadata) error {
	if amount <= 0 || referenceID == "" {
		return ErrInvalidAmount
	}
	if err := s.repo.Credit(ctx, userID, amount, TransactionTypeRefund, referenceID, metadata); err != nil {
		return err
	}
	log.Info().Str("user_id", userID.String()).Int64("amount", amount).Str("reference", referenceID).Msg("wallet refund applied")
	return nil
}

// AppendExternal records a bank-funded event without touching the wallet
// balance. Amount is informational (negative for purchases).
func (s *Service) AppendExternal(ctx context.Context, userID uuid.UUID, amount int64, txType TransactionType, referenceID string, metadata Metadata) error {
	if referenceID == "" {
		return ErrInvalidAmount
	}
	return s.repo.AppendExternal(ctx, userID, amount, txType, referenceID, metadata)
}

// ChangePin replaces the stored PIN after verifying the current one and the
// new PIN's format.
func (s *Service) ChangePin(ctx context.Context, u *user.User, currentPin, newPin string) error {
	if err := s.VerifyPIN(ctx, u, currentPin); err != nil {
		return err
	}
	if !password.IsValidPIN(newPin) {
		return ErrInvalidPinFormat
	}
	hash, err := password.HashPIN(newPin)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePIN(ctx, u.ID, hash); err != nil {
		return err
	}
	log.Info().Str("user_id", u.ID.String()).Msg("transaction pin changed")
	return nil
}

// InitiateDeposit opens the deposit state machine: persist an Initiated
// pending record keyed by a fresh reference, then request a hosted payment
// link. No funds move until the provider confirms via webhook.
func (s *Service) InitiateDeposit(ctx context.Context, u *user.User, pin string, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	if err := s.VerifyPIN(ctx, u, pin); err != nil {
		return "", err
	}

	reference := depositReferencePrefix + uuid.New().String()
	dep := &PendingDeposit{
		Reference: reference,
		UserID:    u.ID,
		Amount:    amount,
		Status:    DepositStatusInitiated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePendingDeposit(ctx, dep); err != nil {
		return "", err
	}

	req := flutterwave.PaymentLinkRequest{
		TxRef:       reference,
		Amount:      fmt.Sprintf("%.2f", KoboToNaira(amount)),
		Currency:    "NGN",
		RedirectURL: s.redirectURL,
		Customer:    flutterwave.Customer{Email: u.Email, Name: u.Name},
	}
	req.Customizations.Title = "Deposit to billsHOME"
	req.Customizations.Description = "Fund your billsHOME wallet"

	link, err := s.gateway.CreatePaymentLink(ctx, req)
	if err != nil {
		// The pending record stays Initiated; it can never credit without
		// a provider confirmation carrying this reference.
		return "", err
	}

	log.Info().Str("user_id", u.ID.String()).Str("reference", reference).Msg("deposit initiated")
	return link.Link, nil
}

// ConfirmDeposit consumes an authenticated webhook delivery. It resolves
// the specific user who initiated the reference and credits exactly once;
// re-deliveries are absorbed by the ledger's reference idempotency.
func (s *Service) ConfirmDeposit(ctx context.Context, payload *flutterwave.WebhookPayload) error {
	if !payload.IsSuccessfulCharge() {
		log.Debug().Str("event", payload.Event).Str("status", payload.Data.Status).Msg("webhook ignored: not a settled charge")
		return nil
	}
	if !strings.HasPrefix(payload.Data.TxRef, depositReferencePrefix) {
		log.Debug().Str("tx_ref", payload.Data.TxRef).Msg("webhook ignored: not a deposit reference")
		return nil
	}

	dep, err := s.repo.GetPendingDeposit(ctx, payload.Data.TxRef)
	if err != nil {
		return err
	}

	amount, err := NairaToKobo(payload.Data.Amount)
	if err != nil {
		return err
	}
	// The pending record holds the amount the user initiated; a delivery
	// asserting anything else is not trusted with a credit.
	if amount != dep.Amount {
		log.Error().Str("reference", dep.Reference).Int64("initiated", dep.Amount).Int64("confirmed", amount).Msg("deposit amount mismatch")
		return ErrAmountMismatch
	}

	if err := s.Credit(ctx, dep.UserID, amount, TransactionTypeDeposit, dep.Reference, nil); err != nil {
		return err
	}
	if err := s.repo.MarkDepositConfirmed(ctx, dep.Reference, time.Now().UTC()); err != nil {
		// The credit is already durable and idempotent; confirmation
		// bookkeeping can be retried on the next delivery.
		log.Warn().Err(err).Str("reference", dep.Reference).Msg("failed to mark deposit confirmed")
	}

	log.Info().Str("user_id", dep.UserID.String()).Str("reference", dep.Reference).Msg("deposit confirmed")
	return nil
}

// Balance returns the current wallet balance in kobo.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Transactions returns the user's ledger in insertion order.
func (s *Service) Transactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, userID)
}
