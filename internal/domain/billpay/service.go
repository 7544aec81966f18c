package billpay

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/billshome/billshome-api/internal/domain/bank"
	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
)

// Payment methods accepted by the purchase endpoints.
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodBank   = "bank"
)

// Ledger is the slice of the wallet engine purchases need.
type Ledger interface {
	VerifyPIN(ctx context.Context, u *user.User, pin string) error
	Debit(ctx context.Context, u *user.User, pin string, amount int64, txType wallet.TransactionType, referenceID string, metadata wallet.Metadata) error
	Refund(ctx context.Context, userID uuid.UUID, amount int64, referenceID string, metadata wallet.Metadata) error
	AppendExternal(ctx context.Context, userID uuid.UUID, amount int64, txType wallet.TransactionType, referenceID string, metadata wallet.Metadata) error
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Gateway is the slice of the payment provider purchases need.
type Gateway interface {
	CreateBill(ctx context.Context, req flutterwave.BillRequest) (*flutterwave.BillResult, error)
	ChargeAccount(ctx context.Context, req flutterwave.ChargeAccountRequest) (*flutterwave.ChargeResult, error)
}

// AccountRegistry resolves linked bank accounts for bank-funded purchases.
type AccountRegistry interface {
	RequireLinked(ctx context.Context, userID uuid.UUID, accountNumber string) (*bank.Account, error)
}

// Service executes bill purchases against the wallet ledger or a linked
// bank account.
type Service struct {
	ledger   Ledger
	gateway  Gateway
	accounts AccountRegistry
}

func NewService(ledger Ledger, gateway Gateway, accounts AccountRegistry) *Service {
	return &Service{ledger: ledger, gateway: gateway, accounts: accounts}
}

// Result reports a completed purchase. Balance is the wallet balance after
// the purchase (unchanged for bank-funded ones).
type Result struct {
	Reference string
	Balance   int64
}

// PurchaseAirtime buys airtime for a phone number, funded from the wallet
// or a linked bank account. Amounts must be whole naira; the Bills API only
// takes integer amounts, and a rounded bill would diverge from the ledger.
func (s *Service) PurchaseAirtime(ctx context.Context, u *user.User, req AirtimeRequest, amount int64) (*Result, error) {
	if amount%koboPerNaira != 0 {
		return nil, wallet.ErrInvalidAmount
	}

	reference := "airtime-" + uuid.New().String()
	metadata := wallet.Metadata{
		"phone":         req.Phone,
		"network":       req.Network,
		"paymentMethod": methodLabel(req.PaymentMethod),
	}
	bill := flutterwave.BillRequest{
		Country:   "NG",
		Customer:  req.Phone,
		Amount:    nairaUnits(amount),
		Type:      AirtimeBillType(req.Network),
		Reference: reference,
	}

	if req.PaymentMethod == PaymentMethodBank {
		return s.purchaseViaBank(ctx, u, req.Pin, req.AccountNumber, amount, wallet.TransactionTypeAirtime, bill, metadata)
	}
	return s.purchaseViaWallet(ctx, u, req.Pin, amount, wallet.TransactionTypeAirtime, &bill, metadata)
}

// PurchaseData buys a data bundle. Wallet-funded only; the plan decides the
// price.
func (s *Service) PurchaseData(ctx context.Context, u *user.User, req DataRequest) (*Result, error) {
	amount, err := DataPlanPrice(req.Plan)
	if err != nil {
		return nil, err
	}

	reference := "data-" + uuid.New().String()
	metadata := wallet.Metadata{
		"phone": req.Phone,
		"plan":  req.Plan,
	}
	bill := flutterwave.BillRequest{
		Country:   "NG",
		Customer:  req.Phone,
		Amount:    nairaUnits(amount),
		Type:      DataBillType(req.Network),
		Reference: reference,
	}
	return s.purchaseViaWallet(ctx, u, req.Pin, amount, wallet.TransactionTypeData, &bill, metadata)
}

// PlaceBet stakes wallet funds on a bet. No gateway call is involved; the
// stake is a pure ledger debit.
func (s *Service) PlaceBet(ctx context.Context, u *user.User, req BetRequest, stake int64) (*Result, error) {
	metadata := wallet.Metadata{"odds": req.Odds}
	return s.purchaseViaWallet(ctx, u, req.Pin, stake, wallet.TransactionTypeBet, nil, metadata)
}

// PurchaseTv pays a TV subscription, funded from the wallet or a linked
// bank account.
func (s *Service) PurchaseTv(ctx context.Context, u *user.User, req TvRequest) (*Result, error) {
	amount, err := TvPlanPrice(req.Plan)
	if err != nil {
		return nil, err
	}
	if _, err := TvBillerCode(req.Provider); err != nil {
		return nil, err
	}

	reference := "tv-" + uuid.New().String()
	metadata := wallet.Metadata{
		"provider": req.Provider,
		"plan":     req.Plan,
	}
	bill := flutterwave.BillRequest{
		Country:   "NG",
		Customer:  req.Smartcard,
		Amount:    nairaUnits(amount),
		Type:      TvBillType(req.Provider),
		Reference: reference,
	}

	if req.PaymentMethod == PaymentMethodBank {
		return s.purchaseViaBank(ctx, u, req.Pin, req.AccountNumber, amount, wallet.TransactionTypeTv, bill, metadata)
	}
	return s.purchaseViaWallet(ctx, u, req.Pin, amount, wallet.TransactionTypeTv, &bill, metadata)
}

// purchaseViaWallet debits first, then pays the bill. The debit is the
// atomic funds check; a gateway failure afterwards is compensated with a
// refund keyed to the same reference so the ledger nets out.
func (s *Service) purchaseViaWallet(ctx context.Context, u *user.User, pin string, amount int64, txType wallet.TransactionType, bill *flutterwave.BillRequest, metadata wallet.Metadata) (*Result, error) {
	var reference string
	if bill != nil {
		reference = bill.Reference
	} else {
		reference = "bet-" + uuid.New().String()
	}

	if err := s.ledger.Debit(ctx, u, pin, amount, txType, reference, metadata); err != nil {
		return nil, err
	}

	if bill != nil {
		if _, err := s.gateway.CreateBill(ctx, *bill); err != nil {
			refundMeta := wallet.Metadata{"description": "Refund for failed " + string(txType)}
			if refundErr := s.ledger.Refund(ctx, u.ID, amount, reference+":refund", refundMeta); refundErr != nil {
				log.Error().Err(refundErr).Str("user_id", u.ID.String()).Str("reference", reference).Msg("refund after gateway failure did not apply")
			}
			return nil, err
		}
	}

	balance, err := s.ledger.Balance(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Reference: reference, Balance: balance}, nil
}

// purchaseViaBank charges the external account, pays the bill, then
// appends an informational ledger entry. The wallet balance is untouched;
// bank-funded purchases and wallet funds are fully decoupled.
func (s *Service) purchaseViaBank(ctx context.Context, u *user.User, pin, accountNumber string, amount int64, txType wallet.TransactionType, bill flutterwave.BillRequest, metadata wallet.Metadata) (*Result, error) {
	if err := s.ledger.VerifyPIN(ctx, u, pin); err != nil {
		return nil, err
	}

	account, err := s.accounts.RequireLinked(ctx, u.ID, accountNumber)
	if err != nil {
		return nil, err
	}

	chargeRef := bill.Reference + "-bank"
	if _, err := s.gateway.ChargeAccount(ctx, flutterwave.ChargeAccountRequest{
		TxRef:         chargeRef,
		Amount:        flutterwave.FormatNaira(wallet.KoboToNaira(amount)),
		Currency:      "NGN",
		AccountBank:   account.BankCode,
		AccountNumber: account.AccountNumber,
		Email:         u.Email,
		FullName:      u.Name,
	}); err != nil {
		return nil, err
	}

	if _, err := s.gateway.CreateBill(ctx, bill); err != nil {
		return nil, err
	}

	if err := s.ledger.AppendExternal(ctx, u.ID, -amount, txType, bill.Reference, metadata); err != nil {
		return nil, err
	}

	balance, err := s.ledger.Balance(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Reference: bill.Reference, Balance: balance}, nil
}

func methodLabel(method string) string {
	if method == PaymentMethodBank {
		return "Bank Account"
	}
	return "Wallet"
}

const koboPerNaira = 100

// nairaUnits converts kobo to the whole-naira units the Bills API expects.
// Callers only pass amounts that divide evenly: catalog prices are whole
// naira and airtime rejects fractional amounts up front.
func nairaUnits(kobo int64) int64 {
	return kobo / koboPerNaira
}
