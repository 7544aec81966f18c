package wallet

import "time"

// DepositRequest for POST /api/deposit
type DepositRequest struct {
	Amount    float64 `json:"amount" validate:"required"`
	Pin       string  `json:"pin" validate:"required,pin"`
	UserEmail string  `json:"userEmail" validate:"required,email"`
}

// ChangePinRequest for POST /api/change-pin
type ChangePinRequest struct {
	CurrentPin string `json:"currentPin" validate:"required"`
	NewPin     string `json:"newPin" validate:"required"`
	UserEmail  string `json:"userEmail" validate:"required,email"`
}

// TransactionResponse is the wire shape of one ledger entry. Amounts leave
// as signed naira decimals; metadata fields flatten into the object the way
// the original API emitted them.
type TransactionResponse struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Reference     string  `json:"reference,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Network       string  `json:"network,omitempty"`
	Plan          string  `json:"plan,omitempty"`
	Provider      string  `json:"provider,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	Description   string  `json:"description,omitempty"`
	Odds          string  `json:"odds,omitempty"`
}

// NewTransactionResponse converts a ledger entry for the wire.
func NewTransactionResponse(t Transaction) TransactionResponse {
	resp := TransactionResponse{
		Type:   string(t.Type),
		Amount: KoboToNaira(t.Amount),
		Date:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.Reference.Valid {
		resp.Reference = t.Reference.String
	}
	resp.Phone = t.Metadata["phone"]
	resp.Network = t.Metadata["network"]
	resp.Plan = t.Metadata["plan"]
	resp.Provider = t.Metadata["provider"]
	resp.PaymentMethod = t.Metadata["paymentMethod"]
	resp.Description = t.Metadata["description"]
	resp.Odds = t.Metadata["odds"]
	return resp
}
