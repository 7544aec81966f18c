package bank

import (
	"time"

	"github.com/google/uuid"
)

// Account is a verified external bank account linked to a user. Created on
// successful gateway verification, removed by explicit PIN-gated request,
// never mutated otherwise.
type Account struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	AccountNumber string    `db:"account_number"`
	BankCode      string    `db:"bank_code"`
	AccountName   string    `db:"account_name"`
	IsDefault     bool      `db:"is_default"`
	LinkedAt      time.Time `db:"linked_at"`
}
