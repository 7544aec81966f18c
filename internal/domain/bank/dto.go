package bank

import "time"

// LinkRequest for POST /api/link-bank-account
type LinkRequest struct {
	AccountNumber string `json:"accountNumber" validate:"required,min=10,max=10"`
	AccountBank   string `json:"accountBank" validate:"required"`
	Pin           string `json:"pin" validate:"required"`
	UserEmail     string `json:"userEmail" validate:"required,email"`
}

// RemoveRequest for POST /api/remove-bank-account
type RemoveRequest struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
	Pin           string `json:"pin" validate:"required"`
	UserEmail     string `json:"userEmail" validate:"required,email"`
}

// ChargeRequest for POST /api/charge-bank-account
type ChargeRequest struct {
	AccountNumber string  `json:"accountNumber" validate:"required"`
	Amount        float64 `json:"amount" validate:"required"`
	Pin           string  `json:"pin" validate:"required"`
	Description   string  `json:"description"`
	UserEmail     string  `json:"userEmail" validate:"required,email"`
}

// AccountResponse is the wire shape of a linked account
type AccountResponse struct {
	AccountNumber string `json:"accountNumber"`
	AccountBank   string `json:"accountBank"`
	AccountName   string `json:"accountName"`
	LinkedAt      string `json:"linkedAt"`
	IsDefault     bool   `json:"isDefault"`
}

// NewAccountResponse converts an account for the wire
func NewAccountResponse(a Account) AccountResponse {
	return AccountResponse{
		AccountNumber: a.AccountNumber,
		AccountBank:   a.BankCode,
		AccountName:   a.AccountName,
		LinkedAt:      a.LinkedAt.UTC().Format(time.RFC3339),
		IsDefault:     a.IsDefault,
	}
}
