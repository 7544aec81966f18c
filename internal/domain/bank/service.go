package bank

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
)

// Gateway is the slice of the payment provider the registry needs.
type Gateway interface {
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*flutterwave.AccountDetails, error)
	ChargeAccount(ctx context.Context, req flutterwave.ChargeAccountRequest) (*flutterwave.ChargeResult, error)
}

// PinVerifier gates registry mutations on the transaction PIN.
type PinVerifier interface {
	VerifyPIN(ctx context.Context, u *user.User, pin string) error
}

// Ledger is the slice of the wallet the registry needs for bank-to-wallet
// top-ups.
type Ledger interface {
	Credit(ctx context.Context, userID uuid.UUID, amount int64, txType wallet.TransactionType, referenceID string, metadata wallet.Metadata) error
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service manages the per-user set of linked external bank accounts.
type Service struct {
	repo    Repository
	gateway Gateway
	pins    PinVerifier
	ledger  Ledger
}

func NewService(repo Repository, gateway Gateway, pins PinVerifier, ledger Ledger) *Service {
	return &Service{repo: repo, gateway: gateway, pins: pins, ledger: ledger}
}

// Link verifies the account with the gateway and stores it. The first
// account a user links becomes their default.
func (s *Service) Link(ctx context.Context, u *user.User, pin, accountNumber, bankCode string) (*Account, error) {
	if err := s.pins.VerifyPIN(ctx, u, pin); err != nil {
		return nil, err
	}

	details, err := s.gateway.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:            uuid.New(),
		UserID:        u.ID,
		AccountNumber: accountNumber,
		BankCode:      bankCode,
		AccountName:   details.AccountName,
		LinkedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID.String()).Str("bank_code", bankCode).Msg("bank account linked")
	return account, nil
}

// List returns the user's linked accounts, empty slice if none.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Unlink removes a linked account by number. Fails with ErrNotLinked when
// absent.
func (s *Service) Unlink(ctx context.Context, u *user.User, pin, accountNumber string) error {
	if err := s.pins.VerifyPIN(ctx, u, pin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, u.ID, accountNumber); err != nil {
		return err
	}
	log.Info().Str("user_id", u.ID.String()).Msg("bank account unlinked")
	return nil
}

// RequireLinked returns the linked account or ErrNotLinked.
func (s *Service) RequireLinked(ctx context.Context, userID uuid.UUID, accountNumber string) (*Account, error) {
	return s.repo.GetByUserAndNumber(ctx, userID, accountNumber)
}

// ChargeAccount debits a linked external account through the gateway and
// credits the wallet with the settled amount (bank-to-wallet top-up). The
// ledger is only touched after the gateway confirms; a failed charge leaves
// the wallet unmodified.
func (s *Service) ChargeAccount(ctx context.Context, u *user.User, pin, accountNumber string, amount int64, description string) (string, int64, error) {
	if amount <= 0 {
		return "", 0, wallet.ErrInvalidAmount
	}
	if err := s.pins.VerifyPIN(ctx, u, pin); err != nil {
		return "", 0, err
	}

	account, err := s.repo.GetByUserAndNumber(ctx, u.ID, accountNumber)
	if err != nil {
		return "", 0, err
	}

	reference := "bank-charge-" + uuid.New().String()
	if _, err := s.gateway.ChargeAccount(ctx, flutterwave.ChargeAccountRequest{
		TxRef:         reference,
		Amount:        flutterwave.FormatNaira(wallet.KoboToNaira(amount)),
		Currency:      "NGN",
		AccountBank:   account.BankCode,
		AccountNumber: account.AccountNumber,
		Email:         u.Email,
		FullName:      u.Name,
	}); err != nil {
		return "", 0, err
	}

	if description == "" {
		description = "Bank account charge"
	}
	metadata := wallet.Metadata{"description": description}
	if err := s.ledger.Credit(ctx, u.ID, amount, wallet.TransactionTypeBankXfer, reference, metadata); err != nil {
		return "", 0, err
	}

	balance, err := s.ledger.Balance(ctx, u.ID)
	if err != nil {
		return "", 0, err
	}

	log.Info().Str("user_id", u.ID.String()).Int64("amount", amount).Str("reference", reference).Msg("bank account charged")
	return reference, balance, nil
}
