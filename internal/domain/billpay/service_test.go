package billpay

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/billshome/billshome-api/internal/domain/bank"
	"github.com/billshome/billshome-api/internal/domain/user"
	"github.com/billshome/billshome-api/internal/domain/wallet"
	"github.com/billshome/billshome-api/internal/pkg/flutterwave"
)

const goodPin = "1234"

type ledgerEntry struct {
	amount    int64
	txType    wallet.TransactionType
	reference string
	external  bool
}

type fakeLedger struct {
	balance int64
	entries []ledgerEntry
}

func (f *fakeLedger) VerifyPIN(ctx context.Context, u *user.User, pin string) error {
	if pin != goodPin {
		return wallet.ErrInvalidPin
	}
	return nil
}

func (f *fakeLedger) Debit(ctx context.Context, u *user.User, pin string, amount int64, txType wallet.TransactionType, referenceID string, metadata wallet.Metadata) error {
	if err := f.VerifyPIN(ctx, u, pin); err != nil {
		return err
	}
	if amount > f.balance {
		return wallet.ErrInsufficientFunds
	}
	f.balance -= amount
	f.entries = append(f.entries, ledgerEntry{amount: -amount, txType: txType, reference: referenceID})
	return nil
}

func (f *fakeLedger) Refund(ctx context.Context, userID uuid.UUID, amount int64, referenceID string, metadata wallet.Metadata) error {
	f.balance += amount
	f.entries = append(f.entries, ledgerEntry{amount: amount, txType: wallet.TransactionTypeRefund, reference: referenceID})
	return nil
}

func (f *fakeLedger) AppendExternal(ctx context.Context, userID uuid.UUID, amount int64, txType wallet.TransactionType, referenceID string, metadata wallet.Metadata) error {
	f.entries = append(f.entries, ledgerEntry{amount: amount, txType: txType, reference: referenceID, external: true})
	return nil
}

func (f *fakeLedger) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.balance, nil
}

type fakeGateway struct {
	bills     []flutterwave.BillRequest
	charges   []flutterwave.ChargeAccountRequest
	billErr   error
	chargeErr error
}

func (f *fakeGateway) CreateBill(ctx context.Context, req flutterwave.BillRequest) (*flutterwave.BillResult, error) {
	if f.billErr != nil {
		return nil, f.billErr
	}
	f.bills = append(f.bills, req)
	return &flutterwave.BillResult{Reference: req.Reference, FlwRef: "FLW-1"}, nil
}

func (f *fakeGateway) ChargeAccount(ctx context.Context, req flutterwave.ChargeAccountRequest) (*flutterwave.ChargeResult, error) {
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	f.charges = append(f.charges, req)
	return &flutterwave.ChargeResult{TxRef: req.TxRef, Status: "successful"}, nil
}

type fakeRegistry struct {
	account *bank.Account
	err     error
}

func (f *fakeRegistry) RequireLinked(ctx context.Context, userID uuid.UUID, accountNumber string) (*bank.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

func testUser() *user.User {
	return &user.User{ID: uuid.New(), Name: "Ada Obi", Email: "ada@test.com"}
}

func TestPurchaseAirtimeDebitsWallet(t *testing.T) {
	ledger := &fakeLedger{balance: 1000_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := AirtimeRequest{Network: "mtn", Phone: "08012345678", Amount: 500, Pin: goodPin}
	result, err := svc.PurchaseAirtime(context.Background(), testUser(), req, 500_00)
	if err != nil {
		t.Fatalf("PurchaseAirtime: %v", err)
	}

	if result.Balance != 500_00 {
		t.Fatalf("expected balance 50000, got %d", result.Balance)
	}
	if len(gateway.bills) != 1 {
		t.Fatalf("expected one bill call, got %d", len(gateway.bills))
	}
	bill := gateway.bills[0]
	if bill.Type != "MTN" || bill.Amount != 500 || bill.Customer != "08012345678" {
		t.Fatalf("unexpected bill request %+v", bill)
	}
}

func TestPurchaseAirtimeWrongPinNeverMutates(t *testing.T) {
	ledger := &fakeLedger{balance: 1000_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := AirtimeRequest{Network: "mtn", Phone: "08012345678", Amount: 500, Pin: "9999"}
	_, err := svc.PurchaseAirtime(context.Background(), testUser(), req, 500_00)
	if !errors.Is(err, wallet.ErrInvalidPin) {
		t.Fatalf("expected ErrInvalidPin, got %v", err)
	}

	if ledger.balance != 1000_00 || len(ledger.entries) != 0 {
		t.Fatalf("wallet mutated on wrong pin: balance=%d entries=%d", ledger.balance, len(ledger.entries))
	}
	if len(gateway.bills) != 0 {
		t.Fatal("gateway must not be called on wrong pin")
	}
}

func TestPurchaseAirtimeRejectsFractionalNaira(t *testing.T) {
	ledger := &fakeLedger{balance: 1000_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := AirtimeRequest{Network: "mtn", Phone: "08012345678", Amount: 500.50, Pin: goodPin}
	_, err := svc.PurchaseAirtime(context.Background(), testUser(), req, 500_50)
	if !errors.Is(err, wallet.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for fractional naira, got %v", err)
	}

	if ledger.balance != 1000_00 || len(ledger.entries) != 0 {
		t.Fatalf("wallet mutated on rejected amount: balance=%d entries=%d", ledger.balance, len(ledger.entries))
	}
	if len(gateway.bills) != 0 {
		t.Fatal("gateway must not be called for a rejected amount")
	}
}

func TestPurchaseAirtimeInsufficientFunds(t *testing.T) {
	ledger := &fakeLedger{balance: 100_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := AirtimeRequest{Network: "glo", Phone: "08012345678", Amount: 500, Pin: goodPin}
	_, err := svc.PurchaseAirtime(context.Background(), testUser(), req, 500_00)
	if !errors.Is(err, wallet.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if len(gateway.bills) != 0 {
		t.Fatal("gateway must not be called without funds")
	}
}

func TestPurchaseAirtimeGatewayFailureRefunds(t *testing.T) {
	ledger := &fakeLedger{balance: 1000_00}
	gateway := &fakeGateway{billErr: flutterwave.ErrGatewayFailure}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := AirtimeRequest{Network: "mtn", Phone: "08012345678", Amount: 500, Pin: goodPin}
	_, err := svc.PurchaseAirtime(context.Background(), testUser(), req, 500_00)
	if !errors.Is(err, flutterwave.ErrGatewayFailure) {
		t.Fatalf("expected ErrGatewayFailure, got %v", err)
	}

	if ledger.balance != 1000_00 {
		t.Fatalf("expected refund to restore balance, got %d", ledger.balance)
	}
	if len(ledger.entries) != 2 {
		t.Fatalf("expected debit + refund entries, got %d", len(ledger.entries))
	}
	if ledger.entries[1].txType != wallet.TransactionTypeRefund {
		t.Fatalf("second entry should be a refund, got %s", ledger.entries[1].txType)
	}
}

func TestPurchaseAirtimeViaBankLeavesWallet(t *testing.T) {
	ledger := &fakeLedger{balance: 1000_00}
	gateway := &fakeGateway{}
	registry := &fakeRegistry{account: &bank.Account{
		UserID:        uuid.New(),
		AccountNumber: "0690000032",
		BankCode:      "044",
		AccountName:   "Ada Obi",
	}}
	svc := NewService(ledger, gateway, registry)

	req := AirtimeRequest{Network: "mtn", Phone: "08012345678", Amount: 500, Pin: goodPin, PaymentMethod: PaymentMethodBank, AccountNumber: "0690000032"}
	result, err := svc.PurchaseAirtime(context.Background(), testUser(), req, 500_00)
	if err != nil {
		t.Fatalf("PurchaseAirtime via bank: %v", err)
	}

	if result.Balance != 1000_00 {
		t.Fatalf("bank purchase must leave wallet balance, got %d", result.Balance)
	}
	if len(gateway.charges) != 1 || len(gateway.bills) != 1 {
		t.Fatalf("expected one charge and one bill, got %d/%d", len(gateway.charges), len(gateway.bills))
	}
	if len(ledger.entries) != 1 || !ledger.entries[0].external || ledger.entries[0].amount != -500_00 {
		t.Fatalf("expected one informational external entry, got %+v", ledger.entries)
	}
}

func TestPurchaseAirtimeViaBankNotLinked(t *testing.T) {
	ledger := &fakeLedger{balance: 1000_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{err: bank.ErrNotLinked})

	req := AirtimeRequest{Network: "mtn", Phone: "08012345678", Amount: 500, Pin: goodPin, PaymentMethod: PaymentMethodBank, AccountNumber: "0690000032"}
	_, err := svc.PurchaseAirtime(context.Background(), testUser(), req, 500_00)
	if !errors.Is(err, bank.ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
	if len(gateway.charges) != 0 {
		t.Fatal("no charge may happen without a linked account")
	}
}

func TestPurchaseDataUsesCatalogPrice(t *testing.T) {
	ledger := &fakeLedger{balance: 5000_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := DataRequest{Phone: "08012345678", Plan: "5GB", Network: "airtel", Pin: goodPin}
	result, err := svc.PurchaseData(context.Background(), testUser(), req)
	if err != nil {
		t.Fatalf("PurchaseData: %v", err)
	}

	if result.Balance != 3000_00 {
		t.Fatalf("expected 5GB plan to cost 200000, balance %d", result.Balance)
	}
	if gateway.bills[0].Type != "AIRTEL_DATA" || gateway.bills[0].Amount != 2000 {
		t.Fatalf("unexpected bill %+v", gateway.bills[0])
	}
}

func TestPurchaseDataUnknownPlan(t *testing.T) {
	svc := NewService(&fakeLedger{balance: 5000_00}, &fakeGateway{}, &fakeRegistry{})

	req := DataRequest{Phone: "08012345678", Plan: "42GB", Network: "mtn", Pin: goodPin}
	if _, err := svc.PurchaseData(context.Background(), testUser(), req); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}

func TestPlaceBetSkipsGateway(t *testing.T) {
	ledger := &fakeLedger{balance: 1000_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := BetRequest{Stake: 200, Odds: "2.5", Pin: goodPin}
	result, err := svc.PlaceBet(context.Background(), testUser(), req, 200_00)
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	if result.Balance != 800_00 {
		t.Fatalf("expected balance 80000, got %d", result.Balance)
	}
	if len(gateway.bills) != 0 || len(gateway.charges) != 0 {
		t.Fatal("bets must not touch the gateway")
	}
	if ledger.entries[0].txType != wallet.TransactionTypeBet {
		t.Fatalf("expected a bet entry, got %s", ledger.entries[0].txType)
	}
}

func TestPurchaseTv(t *testing.T) {
	ledger := &fakeLedger{balance: 5000_00}
	gateway := &fakeGateway{}
	svc := NewService(ledger, gateway, &fakeRegistry{})

	req := TvRequest{Provider: "dstv", Plan: "Premium", Smartcard: "1234567890", Pin: goodPin}
	result, err := svc.PurchaseTv(context.Background(), testUser(), req)
	if err != nil {
		t.Fatalf("PurchaseTv: %v", err)
	}

	if result.Balance != 2500_00 {
		t.Fatalf("expected Premium to cost 250000, balance %d", result.Balance)
	}
	bill := gateway.bills[0]
	if bill.Type != "DSTV" || bill.Customer != "1234567890" || bill.Amount != 2500 {
		t.Fatalf("unexpected bill %+v", bill)
	}
}

func TestPurchaseTvUnknownProvider(t *testing.T) {
	svc := NewService(&fakeLedger{balance: 5000_00}, &fakeGateway{}, &fakeRegistry{})

	req := TvRequest{Provider: "netflix", Plan: "Premium", Smartcard: "1234567890", Pin: goodPin}
	if _, err := svc.PurchaseTv(context.Background(), testUser(), req); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("expected ErrInvalidPlan, got %v", err)
	}
}
