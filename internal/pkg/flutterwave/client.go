package flutterwave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrGatewayFailure is returned when Flutterwave reports a non-success
	// status for a request that was otherwise well formed.
	ErrGatewayFailure = errors.New("payment gateway failure")
	// ErrDuplicateReference is returned when the provider reports that the
	// supplied tx_ref/reference was already used.
	ErrDuplicateReference = errors.New("duplicate transaction reference")
)

// Config holds Flutterwave API configuration
type Config struct {
	SecretKey string
	BaseURL   string // e.g. https://api.flutterwave.com/v3
	Timeout   time.Duration
}

// Client is the Flutterwave payment gateway client. Calls carry no
// idempotency guarantee from the provider side, so every request is tagged
// with a caller-generated unique reference before dispatch.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new Flutterwave API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// FormatNaira renders a naira amount the way the charge endpoints expect.
func FormatNaira(naira float64) string {
	return fmt.Sprintf("%.2f", naira)
}

// apiResponse is the envelope Flutterwave wraps every response in
type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Customer identifies the paying user on gateway calls
type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// PaymentLinkRequest initiates a hosted checkout session
type PaymentLinkRequest struct {
	TxRef       string   `json:"tx_ref"`
	Amount      string   `json:"amount"` // decimal naira string, e.g. "1500.00"
	Currency    string   `json:"currency"`
	RedirectURL string   `json:"redirect_url"`
	Customer    Customer `json:"customer"`
	Customizations struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"customizations"`
}

// PaymentLink is the hosted checkout URL returned for a card deposit
type PaymentLink struct {
	Link string `json:"link"`
}

// CreatePaymentLink requests a hosted payment page for a card deposit.
// Funds are only credited later, when the charge.completed webhook arrives.
func (c *Client) CreatePaymentLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error) {
	if strings.TrimSpace(req.TxRef) == "" {
		return nil, fmt.Errorf("validation error: tx_ref must be non-empty")
	}
	var out PaymentLink
	if err := c.post(ctx, "/payments", req, &out); err != nil {
		return nil, err
	}
	if out.Link == "" {
		return nil, fmt.Errorf("%w: no payment link in response", ErrGatewayFailure)
	}
	return &out, nil
}

// ResolveAccountRequest verifies a bank account before linking
type ResolveAccountRequest struct {
	AccountNumber string `json:"account_number"`
	AccountBank   string `json:"account_bank"`
}

// AccountDetails is the verification result for a bank account
type AccountDetails struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// ResolveAccount verifies that a bank account exists and returns the
// registered account name.
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*AccountDetails, error) {
	if strings.TrimSpace(accountNumber) == "" || strings.TrimSpace(bankCode) == "" {
		return nil, fmt.Errorf("validation error: account number and bank code are required")
	}
	req := ResolveAccountRequest{AccountNumber: accountNumber, AccountBank: bankCode}
	var out AccountDetails
	if err := c.post(ctx, "/accounts/resolve", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChargeAccountRequest debits a Nigerian bank account directly
type ChargeAccountRequest struct {
	TxRef         string  `json:"tx_ref"`
	Amount        string  `json:"amount"`
	Currency      string  `json:"currency"`
	AccountBank   string  `json:"account_bank"`
	AccountNumber string  `json:"account_number"`
	Email         string  `json:"email"`
	PhoneNumber   string  `json:"phone_number,omitempty"`
	FullName      string  `json:"fullname,omitempty"`
}

// ChargeResult reports the outcome of a direct account charge
type ChargeResult struct {
	TxRef  string `json:"tx_ref"`
	FlwRef string `json:"flw_ref"`
	Status string `json:"status"`
}

// ChargeAccount debits a linked bank account. The caller owns the tx_ref.
func (c *Client) ChargeAccount(ctx context.Context, req ChargeAccountRequest) (*ChargeResult, error) {
	if strings.TrimSpace(req.TxRef) == "" {
		return nil, fmt.Errorf("validation error: tx_ref must be non-empty")
	}
	var out ChargeResult
	if err := c.post(ctx, "/charges?type=debit_ng_account", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BillRequest pays a bill (airtime, data bundle, TV subscription)
type BillRequest struct {
	Country    string `json:"country"`
	Customer   string `json:"customer"` // phone or smartcard number
	Amount     int64  `json:"amount"`   // naira, whole units per Bills API
	Recurrence string `json:"recurrence"`
	Type       string `json:"type"` // e.g. MTN, MTN_DATA, DSTV
	Reference  string `json:"reference"`
}

// BillResult reports the outcome of a bill payment
type BillResult struct {
	Reference string `json:"reference"`
	FlwRef    string `json:"flw_ref"`
}

// CreateBill submits a bill payment. The caller owns the reference.
func (c *Client) CreateBill(ctx context.Context, req BillRequest) (*BillResult, error) {
	if strings.TrimSpace(req.Reference) == "" {
		return nil, fmt.Errorf("validation error: reference must be non-empty")
	}
	if req.Recurrence == "" {
		req.Recurrence = "ONCE"
	}
	if req.Country == "" {
		req.Country = "NG"
	}
	var out BillResult
	if err := c.post(ctx, "/bills", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("flutterwave client is not initialized")
	}
	if strings.TrimSpace(c.config.SecretKey) == "" {
		return fmt.Errorf("flutterwave config error: secret key is empty")
	}
	base := strings.TrimRight(c.config.BaseURL, "/")
	if base == "" {
		base = "https://api.flutterwave.com/v3"
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode flutterwave request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("flutterwave api call failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("flutterwave api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("flutterwave api call failed: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse flutterwave response (status %d): %w", resp.StatusCode, err)
	}

	if envelope.Status != "success" {
		if strings.Contains(strings.ToLower(envelope.Message), "duplicate") {
			return fmt.Errorf("%w: %s", ErrDuplicateReference, envelope.Message)
		}
		return fmt.Errorf("%w: %s", ErrGatewayFailure, envelope.Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to parse flutterwave response data: %w", err)
		}
	}
	return nil
}
